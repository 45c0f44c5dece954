// Package consent manages the subjects users may consent to, such as a
// privacy policy or newsletter, and the consents they expressed.
package consent

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	apperrors "github.com/louisbranch/lanparty/internal/platform/errors"
	"github.com/louisbranch/lanparty/internal/platform/id"
	"github.com/louisbranch/lanparty/internal/platform/schema"
	"github.com/louisbranch/lanparty/internal/storage"
)

var (
	ErrSubjectNameTaken = apperrors.New(apperrors.CodeConsentSubjectNameTaken, "consent subject name is already taken")
	ErrInvalidName      = apperrors.New(apperrors.CodeInvalidArgument, "name must be lowercase letters, digits, dashes and underscores")

	namePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// ErrUnknownSubjectID is returned by GetSubjects for IDs without a
// subject. It lists the unknown IDs in its metadata.
func ErrUnknownSubjectID(ids []uuid.UUID) error {
	return apperrors.WithMetadata(apperrors.CodeConsentSubjectUnknown, "unknown consent subject id", map[string]string{
		"subject_ids": strings.Join(lo.Map(ids, func(subjectID uuid.UUID, _ int) string { return subjectID.String() }), ","),
	})
}

// Subject is something users can consent to.
type Subject struct {
	ID                 uuid.UUID
	Name               string
	Title              string
	CheckboxLabel      string
	CheckboxLinkTarget string
}

// Consent is a user's consent to a subject.
type Consent struct {
	UserID      uuid.UUID
	SubjectID   uuid.UUID
	ExpressedAt time.Time
}

// SubjectWithCount is a subject with the number of users who consented.
type SubjectWithCount struct {
	Subject
	ConsentCount int
}

// CreateSubjectSchema validates the admin creation form.
var CreateSubjectSchema = schema.New(
	schema.Field{Name: "name", Type: schema.String, Required: true, Rule: "max=40"},
	schema.Field{Name: "title", Type: schema.String, Required: true, Rule: "max=80"},
	schema.Field{Name: "checkbox_label", Type: schema.String, Required: true, Rule: "max=200"},
	schema.Field{Name: "checkbox_link_target", Type: schema.String, Rule: "max=200"},
)

// Store persists subjects and consents.
type Store interface {
	PutConsentSubject(ctx context.Context, subject Subject) error
	ListConsentSubjects(ctx context.Context) ([]Subject, error)
	GetConsentSubjectsByID(ctx context.Context, ids []uuid.UUID) ([]Subject, error)
	PutConsents(ctx context.Context, consents []Consent) error
	CountConsentsBySubject(ctx context.Context) (map[uuid.UUID]int, error)
	ListConsentedSubjectIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// Service manages consent.
type Service struct {
	store Store
	newID func() (uuid.UUID, error)
}

// NewService builds a consent service.
func NewService(store Store) *Service {
	return &Service{store: store, newID: id.NewID}
}

// CreateSubject defines a consent subject. The link target is optional.
func (s *Service) CreateSubject(ctx context.Context, name, title, checkboxLabel, checkboxLinkTarget string) (Subject, error) {
	name = strings.TrimSpace(name)
	if !namePattern.MatchString(name) {
		return Subject{}, ErrInvalidName
	}
	subjectID, err := s.newID()
	if err != nil {
		return Subject{}, fmt.Errorf("generate subject id: %w", err)
	}
	subject := Subject{
		ID:                 subjectID,
		Name:               name,
		Title:              strings.TrimSpace(title),
		CheckboxLabel:      strings.TrimSpace(checkboxLabel),
		CheckboxLinkTarget: strings.TrimSpace(checkboxLinkTarget),
	}
	if err := s.store.PutConsentSubject(ctx, subject); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return Subject{}, ErrSubjectNameTaken
		}
		return Subject{}, fmt.Errorf("put consent subject: %w", err)
	}
	return subject, nil
}

// CreateSubjectFromRecord creates a subject from a validated
// CreateSubjectSchema record.
func (s *Service) CreateSubjectFromRecord(ctx context.Context, record schema.Record) (Subject, error) {
	return s.CreateSubject(ctx,
		record.String("name"),
		record.String("title"),
		record.String("checkbox_label"),
		record.String("checkbox_link_target"),
	)
}

// GetAllSubjects returns every subject ordered by name.
func (s *Service) GetAllSubjects(ctx context.Context) ([]Subject, error) {
	return s.store.ListConsentSubjects(ctx)
}

// GetSubjectsWithConsentCounts returns every subject with its number of
// consents.
func (s *Service) GetSubjectsWithConsentCounts(ctx context.Context) ([]SubjectWithCount, error) {
	subjects, err := s.store.ListConsentSubjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list consent subjects: %w", err)
	}
	counts, err := s.store.CountConsentsBySubject(ctx)
	if err != nil {
		return nil, fmt.Errorf("count consents: %w", err)
	}
	return lo.Map(subjects, func(subject Subject, _ int) SubjectWithCount {
		return SubjectWithCount{Subject: subject, ConsentCount: counts[subject.ID]}
	}), nil
}

// GetSubjects returns the subjects with the given IDs. Any unknown ID
// fails the whole lookup.
func (s *Service) GetSubjects(ctx context.Context, ids []uuid.UUID) ([]Subject, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	subjects, err := s.store.GetConsentSubjectsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get consent subjects: %w", err)
	}
	found := lo.SliceToMap(subjects, func(subject Subject) (uuid.UUID, struct{}) { return subject.ID, struct{}{} })
	unknown := lo.Filter(ids, func(subjectID uuid.UUID, _ int) bool {
		_, ok := found[subjectID]
		return !ok
	})
	if len(unknown) > 0 {
		return nil, ErrUnknownSubjectID(unknown)
	}
	return subjects, nil
}

// ConsentToSubjects records the user's consent to every subject.
func (s *Service) ConsentToSubjects(ctx context.Context, userID uuid.UUID, subjectIDs []uuid.UUID, expressedAt time.Time) error {
	if _, err := s.GetSubjects(ctx, subjectIDs); err != nil {
		return err
	}
	consents := lo.Map(lo.Uniq(subjectIDs), func(subjectID uuid.UUID, _ int) Consent {
		return Consent{UserID: userID, SubjectID: subjectID, ExpressedAt: expressedAt.UTC()}
	})
	if err := s.store.PutConsents(ctx, consents); err != nil {
		return fmt.Errorf("put consents: %w", err)
	}
	return nil
}

// GetUnconsentedSubjectIDs returns the required subject IDs the user has
// not consented to yet.
func (s *Service) GetUnconsentedSubjectIDs(ctx context.Context, userID uuid.UUID, requiredIDs []uuid.UUID) ([]uuid.UUID, error) {
	consented, err := s.store.ListConsentedSubjectIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list consented subjects: %w", err)
	}
	return lo.Without(lo.Uniq(requiredIDs), consented...), nil
}
