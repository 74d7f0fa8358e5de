package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"

	"tesis-hub/backend/internal/model"
	"tesis-hub/backend/internal/repository"
)

// ── 测试用内存仓储 ──
// db 为 nil 的 Repository 聚合配合 BeginTx/WithTx 的降级逻辑，
// 事务路径在单元测试中直通执行；所有 Get/List 返回副本，
// 写入必须经由 Update 落回，模拟真实仓储的快照语义

var idSeq int
var idMu sync.Mutex

func nextID(prefix string) string {
	idMu.Lock()
	defer idMu.Unlock()
	idSeq++
	return fmt.Sprintf("%s-%04d", prefix, idSeq)
}

// ────────────────────── mockStore ──────────────────────

type mockCredential struct {
	password string
	row      repository.CredentialRow
}

type mockStore struct {
	cycles      map[string]model.Cycle
	professors  map[string]model.Professor
	students    map[string]model.Student
	proposals   map[string]model.Proposal
	assignments map[string]model.Assignment
	creds       map[string]mockCredential // username → 登录凭证

	cycleOrder      []string // 创建顺序，GetCurrent 取末位
	assignmentOrder []string
}

func newMockStore() *mockStore {
	return &mockStore{
		cycles:      make(map[string]model.Cycle),
		professors:  make(map[string]model.Professor),
		students:    make(map[string]model.Student),
		proposals:   make(map[string]model.Proposal),
		assignments: make(map[string]model.Assignment),
		creds:       make(map[string]mockCredential),
	}
}

func newMockRepo(store *mockStore) *repository.Repository {
	return &repository.Repository{
		Auth:       &mockAuthRepo{store: store},
		Cycle:      &mockCycleRepo{store: store},
		Professor:  &mockProfessorRepo{store: store},
		Student:    &mockStudentRepo{store: store},
		Proposal:   &mockProposalRepo{store: store},
		Assignment: &mockAssignmentRepo{store: store},
	}
}

// ── 数据填充辅助 ──

func (m *mockStore) addCycle(name, status string) *model.Cycle {
	c := model.Cycle{CycleID: nextID("cyc"), Name: name, Status: status}
	m.cycles[c.CycleID] = c
	m.cycleOrder = append(m.cycleOrder, c.CycleID)
	return &c
}

func (m *mockStore) addProfessor(cycleID, name string, maxStudents *int, current int) *model.Professor {
	p := model.Professor{
		ProfessorID:     nextID("prof"),
		CycleID:         cycleID,
		Name:            name,
		Email:           fmt.Sprintf("%s@veritas.co.cr", nextID("mail")),
		PasswordHash:    "$2a$10$mock",
		MaxStudents:     maxStudents,
		CurrentStudents: current,
	}
	m.professors[p.ProfessorID] = p
	return &p
}

func (m *mockStore) addStudent(cycleID, name, universityID string, complete bool) *model.Student {
	s := model.Student{
		StudentID:    nextID("stu"),
		CycleID:      cycleID,
		Name:         name,
		Email:        fmt.Sprintf("%s@veritas.co.cr", nextID("mail")),
		UniversityID: universityID,
	}
	if complete {
		s.ProjectDescription = "Proyecto de tesis sobre sistemas distribuidos"
		s.ProjectImageURL = "https://img.example/proyecto.png"
	}
	m.students[s.StudentID] = s
	return &s
}

func (m *mockStore) addProposal(studentID, professorID string, order int, status string) *model.Proposal {
	p := model.Proposal{
		ProposalID:    nextID("prop"),
		StudentID:     studentID,
		ProfessorID:   professorID,
		ProposalOrder: order,
		Status:        status,
	}
	m.proposals[p.ProposalID] = p
	return &p
}

func (m *mockStore) addAssignment(studentID, professorID string, byTutor bool) *model.Assignment {
	a := model.Assignment{
		AssignmentID:    nextID("asg"),
		StudentID:       studentID,
		ProfessorID:     professorID,
		AssignedByTutor: byTutor,
	}
	m.assignments[a.AssignmentID] = a
	m.assignmentOrder = append(m.assignmentOrder, a.AssignmentID)
	return &a
}

// ────────────────────── mockAuthRepo ──────────────────────

type mockAuthRepo struct {
	store *mockStore
}

func (r *mockAuthRepo) ValidateCredentials(ctx context.Context, username, password string) (*repository.CredentialRow, error) {
	cred, ok := r.store.creds[username]
	if !ok || cred.password != password {
		return nil, gorm.ErrRecordNotFound
	}
	row := cred.row
	return &row, nil
}

// ────────────────────── mockCycleRepo ──────────────────────

type mockCycleRepo struct {
	store *mockStore
}

func (r *mockCycleRepo) Create(ctx context.Context, cycle *model.Cycle) error {
	if cycle.CycleID == "" {
		cycle.CycleID = nextID("cyc")
	}
	r.store.cycles[cycle.CycleID] = *cycle
	r.store.cycleOrder = append(r.store.cycleOrder, cycle.CycleID)
	return nil
}

func (r *mockCycleRepo) GetByID(ctx context.Context, id string) (*model.Cycle, error) {
	c, ok := r.store.cycles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *mockCycleRepo) GetCurrent(ctx context.Context) (*model.Cycle, error) {
	for i := len(r.store.cycleOrder) - 1; i >= 0; i-- {
		if c, ok := r.store.cycles[r.store.cycleOrder[i]]; ok {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockCycleRepo) List(ctx context.Context) ([]model.Cycle, error) {
	var cycles []model.Cycle
	for i := len(r.store.cycleOrder) - 1; i >= 0; i-- {
		if c, ok := r.store.cycles[r.store.cycleOrder[i]]; ok {
			cycles = append(cycles, c)
		}
	}
	return cycles, nil
}

func (r *mockCycleRepo) Update(ctx context.Context, cycle *model.Cycle) error {
	if _, ok := r.store.cycles[cycle.CycleID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.store.cycles[cycle.CycleID] = *cycle
	return nil
}

func (r *mockCycleRepo) DeleteOthers(ctx context.Context, keepID string) error {
	for id := range r.store.cycles {
		if id != keepID {
			delete(r.store.cycles, id)
		}
	}
	return nil
}

// ────────────────────── mockProfessorRepo ──────────────────────

type mockProfessorRepo struct {
	store *mockStore
}

func (r *mockProfessorRepo) Create(ctx context.Context, professor *model.Professor) error {
	if professor.ProfessorID == "" {
		professor.ProfessorID = nextID("prof")
	}
	r.store.professors[professor.ProfessorID] = *professor
	return nil
}

func (r *mockProfessorRepo) GetByID(ctx context.Context, id string) (*model.Professor, error) {
	p, ok := r.store.professors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *mockProfessorRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Professor, error) {
	return r.GetByID(ctx, id)
}

func (r *mockProfessorRepo) GetByEmail(ctx context.Context, email string) (*model.Professor, error) {
	for _, p := range r.store.professors {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockProfessorRepo) List(ctx context.Context, cycleID string) ([]model.Professor, error) {
	var professors []model.Professor
	for _, p := range r.store.professors {
		if p.CycleID == cycleID {
			professors = append(professors, p)
		}
	}
	sort.Slice(professors, func(i, j int) bool { return professors[i].Name < professors[j].Name })
	return professors, nil
}

func (r *mockProfessorRepo) Count(ctx context.Context, cycleID string) (int64, error) {
	var count int64
	for _, p := range r.store.professors {
		if p.CycleID == cycleID {
			count++
		}
	}
	return count, nil
}

func (r *mockProfessorRepo) Update(ctx context.Context, professor *model.Professor) error {
	if _, ok := r.store.professors[professor.ProfessorID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.store.professors[professor.ProfessorID] = *professor
	return nil
}

func (r *mockProfessorRepo) Delete(ctx context.Context, id string) error {
	delete(r.store.professors, id)
	return nil
}

func (r *mockProfessorRepo) MigrateToCycle(ctx context.Context, cycleID string) error {
	for id, p := range r.store.professors {
		p.CycleID = cycleID
		p.CurrentStudents = 0
		r.store.professors[id] = p
	}
	return nil
}

// ────────────────────── mockStudentRepo ──────────────────────

type mockStudentRepo struct {
	store *mockStore
}

func (r *mockStudentRepo) Create(ctx context.Context, student *model.Student) error {
	if student.StudentID == "" {
		student.StudentID = nextID("stu")
	}
	r.store.students[student.StudentID] = *student
	return nil
}

func (r *mockStudentRepo) BatchCreate(ctx context.Context, students []model.Student) error {
	for i := range students {
		if err := r.Create(ctx, &students[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *mockStudentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	s, ok := r.store.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *mockStudentRepo) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	for _, s := range r.store.students {
		if s.Email == email {
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockStudentRepo) List(ctx context.Context, cycleID string) ([]model.Student, error) {
	var students []model.Student
	for _, s := range r.store.students {
		if s.CycleID == cycleID {
			students = append(students, s)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (r *mockStudentRepo) Count(ctx context.Context, cycleID string) (int64, error) {
	var count int64
	for _, s := range r.store.students {
		if s.CycleID == cycleID {
			count++
		}
	}
	return count, nil
}

func (r *mockStudentRepo) Update(ctx context.Context, student *model.Student) error {
	if _, ok := r.store.students[student.StudentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.store.students[student.StudentID] = *student
	return nil
}

func (r *mockStudentRepo) Delete(ctx context.Context, id string) error {
	delete(r.store.students, id)
	r.cascade(id)
	return nil
}

func (r *mockStudentRepo) DeleteAll(ctx context.Context) error {
	for id := range r.store.students {
		delete(r.store.students, id)
		r.cascade(id)
	}
	return nil
}

// cascade 模拟学生外键的级联删除
func (r *mockStudentRepo) cascade(studentID string) {
	for id, p := range r.store.proposals {
		if p.StudentID == studentID {
			delete(r.store.proposals, id)
		}
	}
	for id, a := range r.store.assignments {
		if a.StudentID == studentID {
			delete(r.store.assignments, id)
		}
	}
}

// ────────────────────── mockProposalRepo ──────────────────────

type mockProposalRepo struct {
	store *mockStore
}

func (r *mockProposalRepo) Create(ctx context.Context, proposal *model.Proposal) error {
	if proposal.ProposalID == "" {
		proposal.ProposalID = nextID("prop")
	}
	r.store.proposals[proposal.ProposalID] = *proposal
	return nil
}

func (r *mockProposalRepo) GetByID(ctx context.Context, id string) (*model.Proposal, error) {
	p, ok := r.store.proposals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *mockProposalRepo) GetByStudentAndOrder(ctx context.Context, studentID string, order int) (*model.Proposal, error) {
	for _, p := range r.store.proposals {
		if p.StudentID == studentID && p.ProposalOrder == order {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockProposalRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Proposal, error) {
	var proposals []model.Proposal
	for _, p := range r.store.proposals {
		if p.StudentID == studentID {
			r.preloadProfessor(&p)
			proposals = append(proposals, p)
		}
	}
	sort.Slice(proposals, func(i, j int) bool { return proposals[i].ProposalOrder < proposals[j].ProposalOrder })
	return proposals, nil
}

func (r *mockProposalRepo) ListByProfessor(ctx context.Context, professorID string) ([]model.Proposal, error) {
	var proposals []model.Proposal
	for _, p := range r.store.proposals {
		if p.ProfessorID == professorID {
			if s, ok := r.store.students[p.StudentID]; ok {
				student := s
				p.Student = &student
			}
			proposals = append(proposals, p)
		}
	}
	sort.Slice(proposals, func(i, j int) bool { return proposals[i].ProposalID < proposals[j].ProposalID })
	return proposals, nil
}

func (r *mockProposalRepo) ListAcceptedAll(ctx context.Context) ([]model.Proposal, error) {
	var proposals []model.Proposal
	for _, p := range r.store.proposals {
		if p.Status == model.ProposalStatusAccepted {
			r.preloadProfessor(&p)
			proposals = append(proposals, p)
		}
	}
	sort.Slice(proposals, func(i, j int) bool {
		if proposals[i].StudentID != proposals[j].StudentID {
			return proposals[i].StudentID < proposals[j].StudentID
		}
		return proposals[i].ProposalOrder < proposals[j].ProposalOrder
	})
	return proposals, nil
}

func (r *mockProposalRepo) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	var count int64
	for _, p := range r.store.proposals {
		if p.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

func (r *mockProposalRepo) CountAcceptedByProfessor(ctx context.Context, professorID string) (int64, error) {
	var count int64
	for _, p := range r.store.proposals {
		if p.ProfessorID == professorID && p.Status == model.ProposalStatusAccepted {
			count++
		}
	}
	return count, nil
}

func (r *mockProposalRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(r.store.proposals)), nil
}

func (r *mockProposalRepo) Update(ctx context.Context, proposal *model.Proposal) error {
	if _, ok := r.store.proposals[proposal.ProposalID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *proposal
	stored.Student = nil
	stored.Professor = nil
	r.store.proposals[proposal.ProposalID] = stored
	return nil
}

func (r *mockProposalRepo) Delete(ctx context.Context, id string) error {
	delete(r.store.proposals, id)
	return nil
}

func (r *mockProposalRepo) DeleteAll(ctx context.Context) error {
	r.store.proposals = make(map[string]model.Proposal)
	return nil
}

func (r *mockProposalRepo) preloadProfessor(p *model.Proposal) {
	if prof, ok := r.store.professors[p.ProfessorID]; ok {
		professor := prof
		p.Professor = &professor
	}
}

// ────────────────────── mockAssignmentRepo ──────────────────────

type mockAssignmentRepo struct {
	store *mockStore
}

func (r *mockAssignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	if assignment.AssignmentID == "" {
		assignment.AssignmentID = nextID("asg")
	}
	r.store.assignments[assignment.AssignmentID] = *assignment
	r.store.assignmentOrder = append(r.store.assignmentOrder, assignment.AssignmentID)
	return nil
}

func (r *mockAssignmentRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	for _, id := range r.store.assignmentOrder {
		a, ok := r.store.assignments[id]
		if !ok || a.StudentID != studentID {
			continue
		}
		r.preload(&a)
		assignments = append(assignments, a)
	}
	return assignments, nil
}

func (r *mockAssignmentRepo) ListAll(ctx context.Context) ([]model.Assignment, error) {
	var assignments []model.Assignment
	for _, id := range r.store.assignmentOrder {
		a, ok := r.store.assignments[id]
		if !ok {
			continue
		}
		r.preload(&a)
		assignments = append(assignments, a)
	}
	return assignments, nil
}

func (r *mockAssignmentRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(r.store.assignments)), nil
}

func (r *mockAssignmentRepo) Delete(ctx context.Context, id string) error {
	delete(r.store.assignments, id)
	return nil
}

func (r *mockAssignmentRepo) DeleteAll(ctx context.Context) error {
	r.store.assignments = make(map[string]model.Assignment)
	r.store.assignmentOrder = nil
	return nil
}

func (r *mockAssignmentRepo) preload(a *model.Assignment) {
	if s, ok := r.store.students[a.StudentID]; ok {
		student := s
		a.Student = &student
	}
	if p, ok := r.store.professors[a.ProfessorID]; ok {
		professor := p
		a.Professor = &professor
	}
}
