package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/school-core/internal/models"
	"github.com/noah-isme/school-core/internal/repository"
)

// Map-backed store doubles. FindBy supports the same filter columns the real
// stores index.

type mockStudentStore struct {
	students map[string]models.Student
	seq      int
}

func newMockStudentStore(students ...models.Student) *mockStudentStore {
	m := &mockStudentStore{students: map[string]models.Student{}}
	for _, s := range students {
		m.students[s.ID] = s
	}
	return m
}

func (m *mockStudentStore) GetByID(_ context.Context, id string) (*models.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *mockStudentStore) GetByIDs(_ context.Context, ids []string) ([]models.Student, error) {
	var out []models.Student
	for _, id := range ids {
		if s, ok := m.students[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStudentStore) GetAll(_ context.Context) ([]models.Student, error) {
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStudentStore) FindBy(_ context.Context, filters map[string]interface{}) ([]models.Student, error) {
	var out []models.Student
	for _, s := range m.students {
		if v, ok := filters["grade_level"]; ok && s.GradeLevel != v.(string) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStudentStore) Add(_ context.Context, item *models.Student) (string, error) {
	m.seq++
	item.ID = fmt.Sprintf("student-%d", m.seq)
	m.students[item.ID] = *item
	return item.ID, nil
}

type mockTeacherStore struct {
	teachers map[string]models.Teacher
	seq      int
}

func newMockTeacherStore(teachers ...models.Teacher) *mockTeacherStore {
	m := &mockTeacherStore{teachers: map[string]models.Teacher{}}
	for _, t := range teachers {
		m.teachers[t.ID] = t
	}
	return m
}

func (m *mockTeacherStore) GetByID(_ context.Context, id string) (*models.Teacher, error) {
	t, ok := m.teachers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &t, nil
}

func (m *mockTeacherStore) GetAll(_ context.Context) ([]models.Teacher, error) {
	out := make([]models.Teacher, 0, len(m.teachers))
	for _, t := range m.teachers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockTeacherStore) FindBy(_ context.Context, filters map[string]interface{}) ([]models.Teacher, error) {
	var out []models.Teacher
	for _, t := range m.teachers {
		if v, ok := filters["specialization"]; ok && t.Specialization != v.(string) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockTeacherStore) Add(_ context.Context, item *models.Teacher) (string, error) {
	m.seq++
	item.ID = fmt.Sprintf("teacher-%d", m.seq)
	m.teachers[item.ID] = *item
	return item.ID, nil
}

type mockCourseStore struct {
	courses map[string]models.Course
	seq     int
}

func newMockCourseStore(courses ...models.Course) *mockCourseStore {
	m := &mockCourseStore{courses: map[string]models.Course{}}
	for _, c := range courses {
		m.courses[c.ID] = c
	}
	return m
}

func (m *mockCourseStore) GetByID(_ context.Context, id string) (*models.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (m *mockCourseStore) GetByIDs(_ context.Context, ids []string) ([]models.Course, error) {
	var out []models.Course
	for _, id := range ids {
		if c, ok := m.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCourseStore) GetAll(_ context.Context) ([]models.Course, error) {
	out := make([]models.Course, 0, len(m.courses))
	for _, c := range m.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCourseStore) FindBy(_ context.Context, filters map[string]interface{}) ([]models.Course, error) {
	var out []models.Course
	for _, c := range m.courses {
		if v, ok := filters["course_type"]; ok && c.CourseType != v.(string) {
			continue
		}
		if v, ok := filters["teacher_id"]; ok && c.TeacherID != v.(string) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCourseStore) Add(_ context.Context, item *models.Course) (string, error) {
	m.seq++
	item.ID = fmt.Sprintf("course-%d", m.seq)
	m.courses[item.ID] = *item
	return item.ID, nil
}

func (m *mockCourseStore) Update(_ context.Context, id string, changes map[string]interface{}) (int64, error) {
	c, ok := m.courses[id]
	if !ok {
		return 0, nil
	}
	if v, ok := changes["name"]; ok {
		c.Name = v.(string)
	}
	if v, ok := changes["description"]; ok {
		c.Description = v.(string)
	}
	m.courses[id] = c
	return 1, nil
}

type mockEnrollmentStore struct {
	enrollments map[string]models.Enrollment
	seq         int
}

func newMockEnrollmentStore(enrollments ...models.Enrollment) *mockEnrollmentStore {
	m := &mockEnrollmentStore{enrollments: map[string]models.Enrollment{}}
	for _, e := range enrollments {
		m.enrollments[e.ID] = e
	}
	return m
}

func (m *mockEnrollmentStore) FindBy(_ context.Context, filters map[string]interface{}) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range m.enrollments {
		if v, ok := filters["student_id"]; ok && e.StudentID != v.(string) {
			continue
		}
		if v, ok := filters["course_id"]; ok && e.CourseID != v.(string) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockEnrollmentStore) Add(_ context.Context, item *models.Enrollment) (string, error) {
	m.seq++
	item.ID = fmt.Sprintf("enrollment-%d", m.seq)
	m.enrollments[item.ID] = *item
	return item.ID, nil
}

func (m *mockEnrollmentStore) Update(_ context.Context, id string, changes map[string]interface{}) (int64, error) {
	e, ok := m.enrollments[id]
	if !ok {
		return 0, nil
	}
	if v, ok := changes["grade"]; ok {
		grade := v.(float64)
		e.Grade = &grade
	}
	m.enrollments[id] = e
	return 1, nil
}

func (m *mockEnrollmentStore) Delete(_ context.Context, id string) error {
	delete(m.enrollments, id)
	return nil
}

type mockResourceStore struct {
	resources map[string]models.Resource
	seq       int
}

func newMockResourceStore(resources ...models.Resource) *mockResourceStore {
	m := &mockResourceStore{resources: map[string]models.Resource{}}
	for _, r := range resources {
		m.resources[r.ID] = r
	}
	return m
}

func (m *mockResourceStore) GetAll(_ context.Context) ([]models.Resource, error) {
	out := make([]models.Resource, 0, len(m.resources))
	for _, r := range m.resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockResourceStore) GetByID(_ context.Context, id string) (*models.Resource, error) {
	r, ok := m.resources[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (m *mockResourceStore) FindBy(_ context.Context, filters map[string]interface{}) ([]models.Resource, error) {
	var out []models.Resource
	for _, r := range m.resources {
		if v, ok := filters["status"]; ok && r.Status != v.(models.ResourceStatus) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockResourceStore) Add(_ context.Context, item *models.Resource) (string, error) {
	m.seq++
	item.ID = fmt.Sprintf("resource-%d", m.seq)
	m.resources[item.ID] = *item
	return item.ID, nil
}

func (m *mockResourceStore) Update(_ context.Context, id string, changes map[string]interface{}) (int64, error) {
	r, ok := m.resources[id]
	if !ok {
		return 0, nil
	}
	if v, ok := changes["status"]; ok {
		r.Status = v.(models.ResourceStatus)
	}
	if v, ok := changes["last_reservation_date"]; ok {
		at := v.(time.Time)
		r.LastReservationDate = &at
	}
	m.resources[id] = r
	return 1, nil
}

func (m *mockResourceStore) Delete(_ context.Context, id string) error {
	delete(m.resources, id)
	return nil
}

func (m *mockResourceStore) GetPaginated(ctx context.Context, page, pageSize int) (*repository.Page[models.Resource], error) {
	all, _ := m.GetAll(ctx)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	start := (page - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return &repository.Page[models.Resource]{
		Data:       all[start:end],
		Total:      len(all),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (len(all) + pageSize - 1) / pageSize,
	}, nil
}

type mockServiceCatalog struct {
	services map[string]models.Service
	seq      int
}

func newMockServiceCatalog(services ...models.Service) *mockServiceCatalog {
	m := &mockServiceCatalog{services: map[string]models.Service{}}
	for _, s := range services {
		m.services[s.ID] = s
	}
	return m
}

func (m *mockServiceCatalog) GetAll(_ context.Context) ([]models.Service, error) {
	out := make([]models.Service, 0, len(m.services))
	for _, s := range m.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockServiceCatalog) GetByID(_ context.Context, id string) (*models.Service, error) {
	s, ok := m.services[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *mockServiceCatalog) Add(_ context.Context, item *models.Service) (string, error) {
	m.seq++
	item.ID = fmt.Sprintf("service-%d", m.seq)
	m.services[item.ID] = *item
	return item.ID, nil
}

type mockSubscriptionStore struct {
	subscriptions map[string]models.StudentService
	seq           int
}

func newMockSubscriptionStore(subscriptions ...models.StudentService) *mockSubscriptionStore {
	m := &mockSubscriptionStore{subscriptions: map[string]models.StudentService{}}
	for _, s := range subscriptions {
		m.subscriptions[s.ID] = s
	}
	return m
}

func (m *mockSubscriptionStore) GetByID(_ context.Context, id string) (*models.StudentService, error) {
	s, ok := m.subscriptions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *mockSubscriptionStore) FindBy(_ context.Context, filters map[string]interface{}) ([]models.StudentService, error) {
	var out []models.StudentService
	for _, s := range m.subscriptions {
		if v, ok := filters["student_id"]; ok && s.StudentID != v.(string) {
			continue
		}
		if v, ok := filters["service_id"]; ok && s.ServiceID != v.(string) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockSubscriptionStore) Add(_ context.Context, item *models.StudentService) (string, error) {
	m.seq++
	item.ID = fmt.Sprintf("subscription-%d", m.seq)
	m.subscriptions[item.ID] = *item
	return item.ID, nil
}

func (m *mockSubscriptionStore) Update(_ context.Context, id string, changes map[string]interface{}) (int64, error) {
	s, ok := m.subscriptions[id]
	if !ok {
		return 0, nil
	}
	if v, ok := changes["end_date"]; ok {
		at := v.(time.Time)
		s.EndDate = &at
	}
	m.subscriptions[id] = s
	return 1, nil
}
