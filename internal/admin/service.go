// Package admin implements the user-management console: listing with search,
// filters, sorting and pagination over the directory's user store, plus
// role/status edits and deletion.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"shopfolio/internal/identity"
	"shopfolio/internal/identity/directory"
	dErrors "shopfolio/pkg/domain-errors"
	"shopfolio/pkg/platform/sentinel"
)

// UserRow is one console row. Credential material never leaves the store
// through this service.
type UserRow struct {
	identity.User
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Query filters and orders the user list. Zero values mean "no constraint";
// PageSize 0 disables pagination ("all").
type Query struct {
	Search   string
	Role     identity.Role
	Status   identity.Status
	SortBy   string // name, email, role, status, created
	SortDesc bool
	Page     int
	PageSize int
}

// Page is one page of console rows.
type Page struct {
	Users []UserRow `json:"users"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Pages int       `json:"pages"`
}

// Service is the admin console façade over the user store.
type Service struct {
	users directory.Store
	log   *slog.Logger
}

// New constructs the service.
func New(users directory.Store, log *slog.Logger) *Service {
	return &Service{users: users, log: log}
}

// ListUsers returns the rows matching q.
func (s *Service) ListUsers(ctx context.Context, q Query) (Page, error) {
	records, err := s.users.List(ctx)
	if err != nil {
		return Page{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load users")
	}

	term := strings.ToLower(strings.TrimSpace(q.Search))
	rows := make([]UserRow, 0, len(records))
	for _, rec := range records {
		row := UserRow{User: rec.User, EmailVerified: rec.EmailVerified, CreatedAt: rec.CreatedAt}
		if term != "" && !matches(row, term) {
			continue
		}
		if q.Role != "" && row.Role != q.Role {
			continue
		}
		if q.Status != "" && row.Status != q.Status {
			continue
		}
		rows = append(rows, row)
	}

	sortRows(rows, q.SortBy, q.SortDesc)

	page := Page{Total: len(rows), Page: 1, Pages: 1}
	if q.PageSize <= 0 {
		page.Users = rows
		return page, nil
	}

	page.Pages = (len(rows) + q.PageSize - 1) / q.PageSize
	if page.Pages == 0 {
		page.Pages = 1
	}
	current := q.Page
	if current < 1 {
		current = 1
	}
	if current > page.Pages {
		current = page.Pages
	}
	page.Page = current
	start := (current - 1) * q.PageSize
	end := start + q.PageSize
	if end > len(rows) {
		end = len(rows)
	}
	page.Users = rows[start:end]
	return page, nil
}

// UpdateUser sets role and status for the given user.
func (s *Service) UpdateUser(ctx context.Context, id string, role identity.Role, status identity.Status) (UserRow, error) {
	if role != identity.RoleUser && role != identity.RoleAdmin {
		return UserRow{}, dErrors.New(dErrors.CodeValidation, "role must be user or admin")
	}
	if status != identity.StatusActive && status != identity.StatusInactive {
		return UserRow{}, dErrors.New(dErrors.CodeValidation, "status must be active or inactive")
	}

	rec, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return UserRow{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return UserRow{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	rec.User.Role = role
	rec.User.Status = status
	if err := s.users.Update(ctx, rec); err != nil {
		return UserRow{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}
	s.log.Info("user updated", "user", id, "role", string(role), "status", string(status))
	return UserRow{User: rec.User, EmailVerified: rec.EmailVerified, CreatedAt: rec.CreatedAt}, nil
}

// DeleteUser removes the account. Deleting an absent id is a no-op.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user")
	}
	s.log.Info("user deleted", "user", id)
	return nil
}

func matches(row UserRow, term string) bool {
	return strings.Contains(strings.ToLower(row.Name), term) ||
		strings.Contains(strings.ToLower(row.Email), term) ||
		strings.Contains(strings.ToLower(string(row.Role)), term) ||
		strings.Contains(strings.ToLower(string(row.Status)), term)
}

func sortRows(rows []UserRow, by string, desc bool) {
	var less func(i, j int) bool
	switch by {
	case "email":
		less = func(i, j int) bool { return strings.ToLower(rows[i].Email) < strings.ToLower(rows[j].Email) }
	case "role":
		less = func(i, j int) bool { return rows[i].Role < rows[j].Role }
	case "status":
		less = func(i, j int) bool { return rows[i].Status < rows[j].Status }
	case "created":
		less = func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) }
	default:
		less = func(i, j int) bool { return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name) }
	}
	if desc {
		orig := less
		less = func(i, j int) bool { return orig(j, i) }
	}
	sort.SliceStable(rows, less)
}
