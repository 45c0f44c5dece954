// Package sqlite implements every lanparty service store over one SQLite
// database.
//
// Each service declares the narrow Store interface it needs; *Store
// satisfies all of them so the admin process opens a single file.
package sqlite
