package course

import (
	"sort"
	"sync"

	"main/internal/models"
)

// Store is the in-memory course collection. Demo data only; there is
// deliberately no persistence behind it.
type Store struct {
	mu      sync.RWMutex
	records map[int]models.Course
	nextID  int
}

func NewStore() *Store {
	s := &Store{
		records: make(map[int]models.Course),
		nextID:  1,
	}

	seed := []models.CourseCreate{
		{Title: "Python Programming", Description: "Learn Python from scratch", DurationWeeks: 8, Instructor: "Dr. Smith", MaxStudents: 30},
		{Title: "Web Development", Description: "HTML, CSS, JavaScript basics", DurationWeeks: 10, Instructor: "Dr. Johnson", MaxStudents: 25},
		{Title: "Data Science", Description: "Data analysis and machine learning", DurationWeeks: 12, Instructor: "Dr. Williams", MaxStudents: 20},
	}
	for _, in := range seed {
		s.Create(in)
	}

	return s
}

func (s *Store) List() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Course, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Get(id int) (models.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	return record, ok
}

func (s *Store) Create(in models.CourseCreate) models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := models.Course{
		ID:            s.nextID,
		Title:         in.Title,
		Description:   in.Description,
		DurationWeeks: in.DurationWeeks,
		Instructor:    in.Instructor,
		MaxStudents:   in.MaxStudents,
	}
	s.records[record.ID] = record
	s.nextID++
	return record
}

// Update applies only the fields set in the request, leaving the rest
// untouched.
func (s *Store) Update(id int, in models.CourseUpdate) (models.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return models.Course{}, false
	}

	if in.Title != nil {
		record.Title = *in.Title
	}
	if in.Description != nil {
		record.Description = *in.Description
	}
	if in.DurationWeeks != nil {
		record.DurationWeeks = *in.DurationWeeks
	}
	if in.Instructor != nil {
		record.Instructor = *in.Instructor
	}
	if in.MaxStudents != nil {
		record.MaxStudents = *in.MaxStudents
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
