package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rufinoratti/zonadepor-api/models"
	"github.com/rufinoratti/zonadepor-api/notifications"
	"github.com/rufinoratti/zonadepor-api/repositories"
)

// Заглушка database/sql драйвера: сервисы открывают транзакции на *sql.DB,
// а сами запросы уходят в фейковые репозитории, которым executor не нужен.
type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

var registerStubOnce sync.Once

func newStubDB(t *testing.T) *sql.DB {
	t.Helper()
	registerStubOnce.Do(func() {
		sql.Register("stub", stubDriver{})
	})
	db, err := sql.Open("stub", "")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type fakeMatchRepo struct {
	matches map[string]*models.Match
	getErr  error
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	r := &fakeMatchRepo{matches: make(map[string]*models.Match)}
	for _, m := range matches {
		r.matches[m.ID] = m
	}
	return r
}

func (r *fakeMatchRepo) Create(ctx context.Context, m *models.Match) error {
	m.CreatedAt = time.Now()
	r.matches[m.ID] = m
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id string) (*models.Match, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMatchRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id string) (*models.Match, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeMatchRepo) List(ctx context.Context, filter repositories.ListMatchesFilter) ([]models.Match, error) {
	out := make([]models.Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeMatchRepo) ListByUser(ctx context.Context, userID string) ([]models.Match, error) {
	out := make([]models.Match, 0)
	for _, m := range r.matches {
		if m.OrganizerID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) Update(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	if _, ok := r.matches[m.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	copied := *m
	r.matches[m.ID] = &copied
	return nil
}

func (r *fakeMatchRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id string, status models.MatchStatus) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeMatchRepo) UpdateStatusAndCount(ctx context.Context, exec repositories.SQLExecutor, id string, status models.MatchStatus, confirmedPlayers int) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = status
	m.ConfirmedPlayers = confirmedPlayers
	return nil
}

func (r *fakeMatchRepo) SetWinner(ctx context.Context, exec repositories.SQLExecutor, id string, winner models.MatchResult) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Winner = &winner
	m.Status = models.StatusFinished
	return nil
}

func (r *fakeMatchRepo) ListExpired(ctx context.Context, currentTime time.Time) ([]models.Match, error) {
	out := make([]models.Match, 0)
	for _, m := range r.matches {
		if m.Status != models.StatusNeedsPlayers && m.Status != models.StatusFormed {
			continue
		}
		if !m.StartsAt().After(currentTime) {
			out = append(out, *m)
		}
	}
	return out, nil
}

type fakeParticipantRepo struct {
	participants []models.Participant
	sharedIDs    []string
}

func (r *fakeParticipantRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.Participant) error {
	for _, existing := range r.participants {
		if existing.MatchID == p.MatchID && existing.UserID == p.UserID {
			return repositories.ErrParticipantConflict
		}
	}
	p.CreatedAt = time.Now()
	r.participants = append(r.participants, *p)
	return nil
}

func (r *fakeParticipantRepo) FindByUserAndMatch(ctx context.Context, exec repositories.SQLExecutor, userID, matchID string) (*models.Participant, error) {
	for i := range r.participants {
		if r.participants[i].UserID == userID && r.participants[i].MatchID == matchID {
			copied := r.participants[i]
			return &copied, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (r *fakeParticipantRepo) ListByMatch(ctx context.Context, matchID string, includeUsers bool) ([]models.Participant, error) {
	out := make([]models.Participant, 0)
	for _, p := range r.participants {
		if p.MatchID == matchID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeParticipantRepo) CountByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID string) (int, error) {
	count := 0
	for _, p := range r.participants {
		if p.MatchID == matchID {
			count++
		}
	}
	return count, nil
}

func (r *fakeParticipantRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id string) error {
	for i := range r.participants {
		if r.participants[i].ID == id {
			r.participants = append(r.participants[:i], r.participants[i+1:]...)
			return nil
		}
	}
	return repositories.ErrParticipantNotFound
}

func (r *fakeParticipantRepo) SharedFinishedMatchUserIDs(ctx context.Context, userID string) ([]string, error) {
	return r.sharedIDs, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	u.CreatedAt = time.Now()
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, filter repositories.ListUsersFilter) ([]models.User, error) {
	out := make([]models.User, 0)
	for _, u := range r.users {
		if filter.ZoneID != nil && (u.ZoneID == nil || *u.ZoneID != *filter.ZoneID) {
			continue
		}
		if filter.SportID != nil && (u.SportID == nil || *u.SportID != *filter.SportID) {
			continue
		}
		if filter.MinLevel != nil && u.Level < *filter.MinLevel {
			continue
		}
		if filter.MaxLevel != nil && u.Level > *filter.MaxLevel {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *models.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateFirebaseToken(ctx context.Context, userID string, token string) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.FirebaseToken = &token
	return nil
}

func (r *fakeUserRepo) UpdateAvatarKey(ctx context.Context, userID string, avatarKey *string) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.AvatarKey = avatarKey
	return nil
}

type fakeSportRepo struct {
	sports map[string]*models.Sport
}

func (r *fakeSportRepo) Create(ctx context.Context, s *models.Sport) error {
	if r.sports == nil {
		r.sports = make(map[string]*models.Sport)
	}
	r.sports[s.ID] = s
	return nil
}

func (r *fakeSportRepo) GetByID(ctx context.Context, id string) (*models.Sport, error) {
	s, ok := r.sports[id]
	if !ok {
		return nil, repositories.ErrSportNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSportRepo) List(ctx context.Context) ([]models.Sport, error) {
	out := make([]models.Sport, 0, len(r.sports))
	for _, s := range r.sports {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSportRepo) UpdateIconKey(ctx context.Context, sportID string, iconKey *string) error {
	s, ok := r.sports[sportID]
	if !ok {
		return repositories.ErrSportNotFound
	}
	s.IconKey = iconKey
	return nil
}

type fakeZoneRepo struct {
	zones map[string]*models.Zone
}

func (r *fakeZoneRepo) Create(ctx context.Context, z *models.Zone) error {
	if r.zones == nil {
		r.zones = make(map[string]*models.Zone)
	}
	r.zones[z.ID] = z
	return nil
}

func (r *fakeZoneRepo) GetByID(ctx context.Context, id string) (*models.Zone, error) {
	z, ok := r.zones[id]
	if !ok {
		return nil, repositories.ErrZoneNotFound
	}
	copied := *z
	return &copied, nil
}

func (r *fakeZoneRepo) List(ctx context.Context) ([]models.Zone, error) {
	out := make([]models.Zone, 0, len(r.zones))
	for _, z := range r.zones {
		out = append(out, *z)
	}
	return out, nil
}

type fakeInvitationRepo struct {
	invitations map[string]*models.Invitation
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: make(map[string]*models.Invitation)}
}

func (r *fakeInvitationRepo) CreateBatch(ctx context.Context, invitations []models.Invitation) ([]string, error) {
	created := make([]string, 0, len(invitations))
	for i := range invitations {
		inv := invitations[i]
		duplicate := false
		for _, existing := range r.invitations {
			if existing.MatchID == inv.MatchID && existing.UserID == inv.UserID {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		inv.CreatedAt = time.Now()
		r.invitations[inv.ID] = &inv
		created = append(created, inv.UserID)
	}
	return created, nil
}

func (r *fakeInvitationRepo) GetByID(ctx context.Context, id string) (*models.Invitation, error) {
	inv, ok := r.invitations[id]
	if !ok {
		return nil, repositories.ErrInvitationNotFound
	}
	copied := *inv
	return &copied, nil
}

func (r *fakeInvitationRepo) ListPendingByUser(ctx context.Context, userID string) ([]models.Invitation, error) {
	out := make([]models.Invitation, 0)
	for _, inv := range r.invitations {
		if inv.UserID == userID && inv.Status == models.InvitationPending {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *fakeInvitationRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id string, status models.InvitationStatus) error {
	inv, ok := r.invitations[id]
	if !ok {
		return repositories.ErrInvitationNotFound
	}
	inv.Status = status
	return nil
}

type notifiedEvent struct {
	UserID string
	Event  notifications.Event
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notifiedEvent
}

func (n *fakeNotifier) NotifyUser(userID string, event notifications.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifiedEvent{UserID: userID, Event: event})
}

func (n *fakeNotifier) NotifyUsers(userIDs []string, event notifications.Event) {
	for _, id := range userIDs {
		n.NotifyUser(id, event)
	}
}

func (n *fakeNotifier) eventsOfType(eventType string) []notifiedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notifiedEvent, 0)
	for _, e := range n.events {
		if e.Event.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
