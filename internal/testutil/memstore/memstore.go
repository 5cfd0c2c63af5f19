// Package memstore is an in-memory implementation of the service store
// interfaces with the same observable semantics as the MySQL repositories.
// It exists only for the service and HTTP tests; nothing in cmd/ imports it.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/model"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/repository"
)

// Store holds all tables behind one lock, which gives every operation the
// atomicity of a database transaction.
type Store struct {
	mu sync.Mutex

	// Now stamps new logs.
	Now func() time.Time

	nextID    uint64
	users     map[uint64]model.User
	points    map[uint64]model.DropOffPoint
	materials map[uint64]model.MaterialType
	assoc     map[uint64][]uint64 // point id -> material ids
	logs      map[uint64]model.RecyclingLog
}

func New() *Store {
	return &Store{
		Now:       time.Now,
		users:     map[uint64]model.User{},
		points:    map[uint64]model.DropOffPoint{},
		materials: map[uint64]model.MaterialType{},
		assoc:     map[uint64][]uint64{},
		logs:      map[uint64]model.RecyclingLog{},
	}
}

func (s *Store) id() uint64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Users() *Users         { return &Users{s} }
func (s *Store) Points() *Points       { return &Points{s} }
func (s *Store) Materials() *Materials { return &Materials{s} }
func (s *Store) Logs() *Logs           { return &Logs{s} }

// Users implements service.UserStore.
type Users struct{ s *Store }

func (u *Users) Create(_ context.Context, usr *model.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, other := range u.s.users {
		if other.Username == usr.Username {
			return repository.ErrDuplicate
		}
	}
	usr.ID = u.s.id()
	usr.CreatedAt = u.s.Now().UTC()
	u.s.users[usr.ID] = *usr
	return nil
}

func (u *Users) GetByUsername(_ context.Context, username string) (model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, usr := range u.s.users {
		if usr.Username == username {
			return usr, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (u *Users) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := u.GetByUsername(ctx, username)
	if err == repository.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

// Points implements service.PointStore.
type Points struct{ s *Store }

func (p *Points) List(context.Context) ([]model.DropOffPoint, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	out := make([]model.DropOffPoint, 0, len(p.s.points))
	for _, pt := range p.s.points {
		var names []string
		for _, mid := range p.s.assoc[pt.ID] {
			names = append(names, p.s.materials[mid].MaterialName)
		}
		if len(names) > 0 {
			sort.Strings(names)
			joined := strings.Join(names, ", ")
			pt.AcceptedMaterials = &joined
		}
		out = append(out, pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (p *Points) requireMaterials(ids []uint64) error {
	for _, id := range ids {
		if _, ok := p.s.materials[id]; !ok {
			return repository.ErrUnknownMaterial
		}
	}
	return nil
}

func (p *Points) Create(_ context.Context, pt *model.DropOffPoint, materialIDs []uint64) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if err := p.requireMaterials(materialIDs); err != nil {
		return err
	}
	pt.ID = p.s.id()
	stored := *pt
	stored.AcceptedMaterials = nil
	p.s.points[pt.ID] = stored
	if len(materialIDs) > 0 {
		p.s.assoc[pt.ID] = append([]uint64(nil), materialIDs...)
	}
	return nil
}

func (p *Points) Update(_ context.Context, pt *model.DropOffPoint, materialIDs []uint64, replace bool) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	cur, ok := p.s.points[pt.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if replace {
		if err := p.requireMaterials(materialIDs); err != nil {
			return err
		}
	}
	status := pt.Status
	if status == "" {
		status = cur.Status
	}
	stored := *pt
	stored.Status = status
	stored.AcceptedMaterials = nil
	p.s.points[pt.ID] = stored
	if replace {
		delete(p.s.assoc, pt.ID)
		if len(materialIDs) > 0 {
			p.s.assoc[pt.ID] = append([]uint64(nil), materialIDs...)
		}
	}
	return nil
}

func (p *Points) Delete(_ context.Context, id uint64) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if _, ok := p.s.points[id]; !ok {
		return repository.ErrNotFound
	}
	for _, l := range p.s.logs {
		if l.PointID == id {
			return repository.ErrReferenced
		}
	}
	delete(p.s.assoc, id)
	delete(p.s.points, id)
	return nil
}

// Materials implements service.MaterialStore.
type Materials struct{ s *Store }

func (m *Materials) List(context.Context) ([]model.MaterialType, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]model.MaterialType, 0, len(m.s.materials))
	for _, mt := range m.s.materials {
		out = append(out, mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Materials) nameTaken(name string, except uint64) bool {
	for _, mt := range m.s.materials {
		if mt.MaterialName == name && mt.ID != except {
			return true
		}
	}
	return false
}

func (m *Materials) Create(_ context.Context, mt *model.MaterialType) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.nameTaken(mt.MaterialName, 0) {
		return repository.ErrDuplicate
	}
	mt.ID = m.s.id()
	m.s.materials[mt.ID] = *mt
	return nil
}

func (m *Materials) Update(_ context.Context, mt *model.MaterialType) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.materials[mt.ID]; !ok {
		return repository.ErrNotFound
	}
	if m.nameTaken(mt.MaterialName, mt.ID) {
		return repository.ErrDuplicate
	}
	m.s.materials[mt.ID] = *mt
	return nil
}

func (m *Materials) Delete(_ context.Context, id uint64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.materials[id]; !ok {
		return repository.ErrNotFound
	}
	for _, l := range m.s.logs {
		if l.MaterialID == id {
			return repository.ErrReferenced
		}
	}
	for _, ids := range m.s.assoc {
		for _, mid := range ids {
			if mid == id {
				return repository.ErrReferenced
			}
		}
	}
	delete(m.s.materials, id)
	return nil
}

// Logs implements service.LogStore.
type Logs struct{ s *Store }

func (l *Logs) entry(r model.RecyclingLog) model.LogEntry {
	return model.LogEntry{
		ID:           r.ID,
		WeightKg:     r.WeightKg,
		LoggedAt:     r.LoggedAt,
		MaterialID:   r.MaterialID,
		PointID:      r.PointID,
		MaterialName: l.s.materials[r.MaterialID].MaterialName,
		PointName:    l.s.points[r.PointID].Name,
		UserID:       r.UserID,
		Username:     l.s.users[r.UserID].Username,
	}
}

func (l *Logs) ListRecent(_ context.Context, limit int) ([]model.LogEntry, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	out := make([]model.LogEntry, 0, len(l.s.logs))
	for _, r := range l.s.logs {
		out = append(out, l.entry(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoggedAt.Equal(out[j].LoggedAt) {
			return out[i].LoggedAt.After(out[j].LoggedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (l *Logs) GetEntry(_ context.Context, id uint64) (model.LogEntry, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	r, ok := l.s.logs[id]
	if !ok {
		return model.LogEntry{}, repository.ErrNotFound
	}
	return l.entry(r), nil
}

func (l *Logs) requireRefs(pointID, materialID uint64) error {
	if _, ok := l.s.points[pointID]; !ok {
		return repository.ErrUnknownPoint
	}
	if _, ok := l.s.materials[materialID]; !ok {
		return repository.ErrUnknownMaterial
	}
	return nil
}

func (l *Logs) Create(_ context.Context, r *model.RecyclingLog) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if err := l.requireRefs(r.PointID, r.MaterialID); err != nil {
		return err
	}
	r.ID = l.s.id()
	r.LoggedAt = l.s.Now().UTC()
	l.s.logs[r.ID] = *r
	return nil
}

func (l *Logs) Update(_ context.Context, r *model.RecyclingLog, authorize repository.Authorizer) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	cur, ok := l.s.logs[r.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := authorize(cur.UserID); err != nil {
		return err
	}
	if err := l.requireRefs(r.PointID, r.MaterialID); err != nil {
		return err
	}
	cur.PointID, cur.MaterialID, cur.WeightKg = r.PointID, r.MaterialID, r.WeightKg
	l.s.logs[r.ID] = cur
	r.UserID = cur.UserID
	return nil
}

func (l *Logs) Delete(_ context.Context, id uint64, authorize repository.Authorizer) (uint64, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	cur, ok := l.s.logs[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if err := authorize(cur.UserID); err != nil {
		return 0, err
	}
	delete(l.s.logs, id)
	return cur.UserID, nil
}
