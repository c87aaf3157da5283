package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/portal/pkg/docstore"
)

// Buckets used by Bolt.
const (
	UsersBucket  = "users"
	UIDsBucket   = "uids"
	EmailsBucket = "emails"
)

// Bolt is a Repository kept in the portal database.
type Bolt struct {
	db  *docstore.DB
	now func() time.Time
}

// NewBolt returns a repository over db.
func NewBolt(db *docstore.DB) *Bolt {
	return &Bolt{db: db, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (b *Bolt) GetOrCreate(ctx context.Context, uid, email, name string) (User, error) {
	if uid == "" {
		return User{}, errors.New("profile: uid required")
	}
	var out User
	err := b.db.Update(func(tx *docstore.Tx) error {
		u, err := lookup(tx, uid, email)
		if err == nil {
			if u.UID == "" {
				u.UID = uid
				if err := save(tx, *u); err != nil {
					return err
				}
			}
			out = *u
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		out = User{
			DocID:     uid,
			UID:       uid,
			Name:      strings.TrimSpace(name),
			Email:     normalizeEmail(email),
			Approved:  false,
			CreatedAt: b.now().UTC(),
		}
		return save(tx, out)
	})
	if err != nil {
		return User{}, fmt.Errorf("profile: get or create %s: %w", uid, err)
	}
	return out, nil
}

func (b *Bolt) Get(ctx context.Context, uid, email string) (User, error) {
	var out User
	err := b.db.Update(func(tx *docstore.Tx) error {
		u, err := lookup(tx, uid, email)
		if err != nil {
			return err
		}
		if u.UID == "" && uid != "" {
			u.UID = uid
			if err := save(tx, *u); err != nil {
				return err
			}
		}
		out = *u
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("profile: get %s: %w", uid, err)
	}
	return out, nil
}

func (b *Bolt) Update(ctx context.Context, uid string, patch Patch) (User, error) {
	var out User
	err := b.db.Update(func(tx *docstore.Tx) error {
		u, err := lookup(tx, uid, "")
		if err != nil {
			return err
		}
		patch.Apply(u)
		out = *u
		return save(tx, out)
	})
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("profile: update %s: %w", uid, err)
	}
	return out, nil
}

func (b *Bolt) CreateSignupRequest(ctx context.Context, req SignupRequest) (User, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return User{}, errors.New("profile: email required")
	}
	u := User{
		DocID:            uuid.NewString(),
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		Phone:            strings.TrimSpace(req.Phone),
		Address:          strings.TrimSpace(req.Address),
		GapID:            strings.TrimSpace(req.GapID),
		EnrolledYear:     strings.TrimSpace(req.EnrolledYear),
		CurrentTrimester: strings.TrimSpace(req.CurrentTrimester),
		Job:              strings.TrimSpace(req.Job),
		Clubs:            append([]string{}, req.Clubs...),
		Role:             "Student",
		Approved:         false,
		CreatedAt:        b.now().UTC(),
	}
	err := b.db.Update(func(tx *docstore.Tx) error {
		existing, err := tx.Raw(EmailsBucket, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("request for %s already exists", email)
		}
		return save(tx, u)
	})
	if err != nil {
		return User{}, fmt.Errorf("profile: sign-up request: %w", err)
	}
	return u, nil
}

func (b *Bolt) SignupRequests(ctx context.Context) ([]User, error) {
	var all []User
	err := b.db.View(func(tx *docstore.Tx) error {
		var err error
		all, err = docstore.List[User](tx, UsersBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("profile: list requests: %w", err)
	}
	pending := make([]User, 0, len(all))
	for _, u := range all {
		if !u.Approved {
			pending = append(pending, u)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending, nil
}

func (b *Bolt) Approve(ctx context.Context, email string) (User, error) {
	var out User
	err := b.db.Update(func(tx *docstore.Tx) error {
		u, err := lookup(tx, "", email)
		if err != nil {
			return err
		}
		u.Approved = true
		out = *u
		return save(tx, out)
	})
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("profile: approve %s: %w", email, err)
	}
	return out, nil
}

// lookup resolves a document by doc id, then the uid index, then the email
// index.
func lookup(tx *docstore.Tx, uid, email string) (*User, error) {
	if uid != "" {
		if u, err := docstore.Get[User](tx, UsersBucket, uid); err == nil {
			return u, nil
		} else if !errors.Is(err, docstore.ErrNotFound) {
			return nil, err
		}
		docID, err := tx.Raw(UIDsBucket, uid)
		if err != nil {
			return nil, err
		}
		if docID != nil {
			return byDocID(tx, string(docID))
		}
	}
	if email = normalizeEmail(email); email != "" {
		docID, err := tx.Raw(EmailsBucket, email)
		if err != nil {
			return nil, err
		}
		if docID != nil {
			return byDocID(tx, string(docID))
		}
	}
	return nil, ErrNotFound
}

func byDocID(tx *docstore.Tx, docID string) (*User, error) {
	u, err := docstore.Get[User](tx, UsersBucket, docID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	return u, err
}

// save writes u and its indexes.
func save(tx *docstore.Tx, u User) error {
	if err := docstore.Put(tx, UsersBucket, u.DocID, u); err != nil {
		return err
	}
	if u.UID != "" {
		if err := tx.PutRaw(UIDsBucket, u.UID, []byte(u.DocID)); err != nil {
			return err
		}
	}
	if u.Email != "" {
		if err := tx.PutRaw(EmailsBucket, u.Email, []byte(u.DocID)); err != nil {
			return err
		}
	}
	return nil
}
