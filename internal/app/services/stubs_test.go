package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okandemir/studenthub/internal/app/models"
	"github.com/okandemir/studenthub/internal/app/repositories"
	"github.com/okandemir/studenthub/internal/pkg/apperrors"
)

// memUserRepo is an in-memory IUserRepository for service tests.
type memUserRepo struct {
	mu         sync.Mutex
	nextID     int64
	users      map[int64]*models.User
	failDelete bool
	// onDelete mimics the ON DELETE CASCADE from users to students.
	onDelete func(userID int64)
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*models.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return apperrors.ErrUsernameAlreadyExists
		}
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *memUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *memUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *memUserRepo) List(ctx context.Context, filter repositories.UserFilter) ([]*models.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, len(out), nil
}

func (r *memUserRepo) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	for k, v := range fields {
		switch k {
		case "email":
			u.Email = v.(string)
		case "first_name":
			u.FirstName = v.(string)
		case "last_name":
			u.LastName = v.(string)
		case "password":
			u.Password = v.(string)
		case "is_active":
			u.IsActive = v.(bool)
		}
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (r *memUserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return r.Update(ctx, id, map[string]interface{}{"is_active": active})
}

func (r *memUserRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	if r.failDelete {
		r.mu.Unlock()
		return apperrors.NewCustomError(nil, "simulated delete failure")
	}
	if _, ok := r.users[id]; !ok {
		r.mu.Unlock()
		return apperrors.ErrUserNotFound
	}
	delete(r.users, id)
	r.mu.Unlock()

	if r.onDelete != nil {
		r.onDelete(id)
	}
	return nil
}

func (r *memUserRepo) GetRoleByName(ctx context.Context, name models.RoleType) (*models.Role, error) {
	for i, role := range models.AllRoles {
		if role == name {
			return &models.Role{ID: int64(i + 1), Name: role}, nil
		}
	}
	return nil, apperrors.ErrRoleNotFound
}

func (r *memUserRepo) CountByRole(ctx context.Context) (map[models.RoleType]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[models.RoleType]int64)
	for _, u := range r.users {
		counts[u.Role]++
	}
	return counts, nil
}

func (r *memUserRepo) CountActive(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// memStudentRepo is an in-memory IStudentRepository for service tests.
// failCreates makes the next N Create calls fail with failErr.
type memStudentRepo struct {
	mu          sync.Mutex
	nextID      int64
	profiles    map[int64]*models.StudentProfile
	users       *memUserRepo
	failCreates int
	failErr     error
}

func newMemStudentRepo(users *memUserRepo) *memStudentRepo {
	r := &memStudentRepo{profiles: make(map[int64]*models.StudentProfile), users: users}
	users.onDelete = func(userID int64) {
		r.mu.Lock()
		defer r.mu.Unlock()
		for id, p := range r.profiles {
			if p.UserID == userID {
				delete(r.profiles, id)
			}
		}
	}
	return r
}

func (r *memStudentRepo) Create(ctx context.Context, profile *models.StudentProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreates > 0 {
		r.failCreates--
		return r.failErr
	}
	for _, p := range r.profiles {
		if p.StudentID == profile.StudentID {
			return apperrors.ErrStudentIDAlreadyExists
		}
	}
	r.nextID++
	profile.ID = r.nextID
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	clone := *profile
	clone.User = nil
	r.profiles[profile.ID] = &clone
	return nil
}

func (r *memStudentRepo) composed(p *models.StudentProfile) *models.StudentProfile {
	clone := *p
	if u, err := r.users.GetByID(context.Background(), p.UserID); err == nil {
		clone.User = u
	}
	return &clone
}

func (r *memStudentRepo) GetByID(ctx context.Context, id int64) (*models.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[id]; ok {
		return r.composed(p), nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *memStudentRepo) GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.UserID == userID {
			return r.composed(p), nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *memStudentRepo) GetByStudentID(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.StudentID == studentID {
			return r.composed(p), nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *memStudentRepo) Search(ctx context.Context, filter repositories.StudentFilter) ([]*models.StudentProfile, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	term := strings.ToLower(filter.Search)
	var out []*models.StudentProfile
	for _, p := range r.profiles {
		composed := r.composed(p)
		if filter.Gender != nil && (composed.Gender == nil || *composed.Gender != *filter.Gender) {
			continue
		}
		if term != "" {
			haystack := strings.ToLower(composed.StudentID)
			if composed.User != nil {
				haystack += " " + strings.ToLower(composed.User.FirstName) +
					" " + strings.ToLower(composed.User.LastName) +
					" " + strings.ToLower(composed.User.Email)
			}
			if !strings.Contains(haystack, term) {
				continue
			}
		}
		out = append(out, composed)
	}

	sort.Slice(out, func(i, j int) bool {
		li, lj := "", ""
		fi, fj := "", ""
		if out[i].User != nil {
			li, fi = out[i].User.LastName, out[i].User.FirstName
		}
		if out[j].User != nil {
			lj, fj = out[j].User.LastName, out[j].User.FirstName
		}
		if li != lj {
			return li < lj
		}
		return fi < fj
	})
	return out, len(out), nil
}

func (r *memStudentRepo) MaxIdentifierForPrefix(ctx context.Context, prefix string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := ""
	for _, p := range r.profiles {
		if strings.HasPrefix(p.StudentID, prefix) && p.StudentID > max {
			max = p.StudentID
		}
	}
	return max, nil
}

func (r *memStudentRepo) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	for k, v := range fields {
		switch k {
		case "date_of_birth":
			p.DateOfBirth = v.(time.Time)
		case "gender":
			g := v.(string)
			p.Gender = &g
		case "address":
			a := v.(string)
			p.Address = &a
		case "phone":
			ph := v.(string)
			p.Phone = &ph
		}
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (r *memStudentRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(r.profiles, id)
	return nil
}

func (r *memStudentRepo) CountAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.profiles)), nil
}

func (r *memStudentRepo) GenderDistribution(ctx context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dist := make(map[string]int64)
	for _, p := range r.profiles {
		key := "Unspecified"
		if p.Gender != nil {
			key = *p.Gender
		}
		dist[key]++
	}
	return dist, nil
}

func (r *memStudentRepo) RecentAdmissions(ctx context.Context, limit int) ([]*models.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.StudentProfile
	for _, p := range r.profiles {
		out = append(out, r.composed(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AdmissionDate.Equal(out[j].AdmissionDate) {
			return out[i].AdmissionDate.After(out[j].AdmissionDate)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memStudentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.profiles)
}

// memTokenRepo is an in-memory ITokenRepository for service tests.
type memTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*storedToken
}

type storedToken struct {
	userID    int64
	expiresAt time.Time
	revoked   bool
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: make(map[string]*storedToken)}
}

func (r *memTokenRepo) CreateToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token]; ok {
		return apperrors.ErrTokenInvalid
	}
	r.tokens[token] = &storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *memTokenRepo) GetTokenUser(ctx context.Context, token string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	if t.revoked {
		return 0, apperrors.ErrTokenRevoked
	}
	if t.expiresAt.Before(time.Now()) {
		return 0, apperrors.ErrTokenExpired
	}
	return t.userID, nil
}

func (r *memTokenRepo) RevokeToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	t.revoked = true
	return nil
}

func (r *memTokenRepo) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.userID == userID {
			t.revoked = true
		}
	}
	return nil
}

func (r *memTokenRepo) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for token, t := range r.tokens {
		if t.expiresAt.Before(time.Now()) {
			delete(r.tokens, token)
			deleted++
		}
	}
	return deleted, nil
}
