package student

import (
	"sort"
	"sync"

	"main/internal/models"
)

// Store is the in-memory student collection. Demo data only; there is
// deliberately no persistence behind it.
type Store struct {
	mu      sync.RWMutex
	records map[int]models.Student
	nextID  int
}

func NewStore() *Store {
	s := &Store{
		records: make(map[int]models.Student),
		nextID:  1,
	}

	seed := []models.StudentCreate{
		{Name: "Alice Johnson", Age: 21, Email: "alice@example.com", Course: "Python Programming"},
		{Name: "Bob Smith", Age: 23, Email: "bob@example.com", Course: "Web Development"},
		{Name: "Charlie Brown", Age: 22, Email: "charlie@example.com", Course: "Data Science"},
	}
	for _, in := range seed {
		s.Create(in)
	}

	return s
}

func (s *Store) List() []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Student, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Get(id int) (models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	return record, ok
}

func (s *Store) Create(in models.StudentCreate) models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := models.Student{
		ID:     s.nextID,
		Name:   in.Name,
		Age:    in.Age,
		Email:  in.Email,
		Course: in.Course,
	}
	s.records[record.ID] = record
	s.nextID++
	return record
}

// Update applies only the fields set in the request, leaving the rest
// untouched.
func (s *Store) Update(id int, in models.StudentUpdate) (models.Student, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return models.Student{}, false
	}

	if in.Name != nil {
		record.Name = *in.Name
	}
	if in.Age != nil {
		record.Age = *in.Age
	}
	if in.Email != nil {
		record.Email = *in.Email
	}
	if in.Course != nil {
		record.Course = *in.Course
	}

	s.records[id] = record
	return record, true
}

func (s *Store) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false
	}
	delete(s.records, id)
	return true
}
