package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"tesis-hub/backend/internal/dto"
	"tesis-hub/backend/internal/model"
)

func newCycleTestEnv() (*mockStore, CycleService) {
	store := newMockStore()
	return store, NewCycleService(newMockRepo(store), zap.NewNop())
}

func TestGetCurrentReturnsLatestCycle(t *testing.T) {
	store, svc := newCycleTestEnv()
	store.addCycle("Ciclo Viejo", model.CycleStatusClosed)
	latest := store.addCycle("Ciclo 2026", model.CycleStatusSetup)

	resp, err := svc.GetCurrent(context.Background())
	if err != nil {
		t.Fatalf("查询当前周期失败: %v", err)
	}
	if resp.ID != latest.CycleID {
		t.Errorf("应返回最新周期 %s，实际 %s", latest.CycleID, resp.ID)
	}
}

func TestGetCurrentWithoutCycle(t *testing.T) {
	_, svc := newCycleTestEnv()
	if _, err := svc.GetCurrent(context.Background()); !errors.Is(err, ErrCycleNotFound) {
		t.Fatalf("期望 ErrCycleNotFound，实际 %v", err)
	}
}

func TestAdvanceStatus(t *testing.T) {
	store, svc := newCycleTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSetup)

	resp, err := svc.AdvanceStatus(context.Background(), cycle.CycleID, &dto.AdvanceCycleStatusRequest{
		Status: model.CycleStatusSubmissions,
	})
	if err != nil {
		t.Fatalf("推进周期状态失败: %v", err)
	}
	if resp.Status != model.CycleStatusSubmissions {
		t.Errorf("状态未更新: %s", resp.Status)
	}
	if got := store.cycles[cycle.CycleID].Status; got != model.CycleStatusSubmissions {
		t.Errorf("存储中状态未更新: %s", got)
	}
}

func TestPreviewRotationCounts(t *testing.T) {
	store, svc := newCycleTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSelections)
	p1 := store.addProfessor(cycle.CycleID, "Prof A", nil, 1)
	store.addProfessor(cycle.CycleID, "Prof B", nil, 0)
	s1 := store.addStudent(cycle.CycleID, "Ana Mora", "B11111", true)
	s2 := store.addStudent(cycle.CycleID, "Luis Rojas", "B22222", true)
	store.addProposal(s1.StudentID, p1.ProfessorID, 1, model.ProposalStatusAccepted)
	store.addProposal(s2.StudentID, p1.ProfessorID, 1, model.ProposalStatusPending)
	store.addAssignment(s1.StudentID, p1.ProfessorID, false)

	preview, err := svc.PreviewRotation(context.Background())
	if err != nil {
		t.Fatalf("轮换预览失败: %v", err)
	}
	if preview.Students != 2 || preview.Proposals != 2 || preview.Assignments != 1 || preview.Professors != 2 {
		t.Errorf("预览计数错误: %+v", preview)
	}
}

func TestRotateResetsCycleData(t *testing.T) {
	store, svc := newCycleTestEnv()
	old := store.addCycle("Ciclo 2025", model.CycleStatusClosed)
	prof := store.addProfessor(old.CycleID, "Prof A", nil, 2)
	student := store.addStudent(old.CycleID, "Ana Mora", "B11111", true)
	store.addProposal(student.StudentID, prof.ProfessorID, 1, model.ProposalStatusAccepted)
	store.addAssignment(student.StudentID, prof.ProfessorID, true)

	resp, err := svc.Rotate(context.Background(), &dto.RotateCycleRequest{Name: "Ciclo 2026"})
	if err != nil {
		t.Fatalf("周期轮换失败: %v", err)
	}
	if resp.Name != "Ciclo 2026" || resp.Status != model.CycleStatusSetup {
		t.Errorf("新周期数据错误: %+v", resp)
	}

	// 旧周期被删除，新周期为唯一行
	if len(store.cycles) != 1 {
		t.Errorf("轮换后应仅剩 1 个周期，实际 %d", len(store.cycles))
	}
	if _, ok := store.cycles[old.CycleID]; ok {
		t.Error("旧周期未删除")
	}

	// 教授迁移到新周期且计数清零
	migrated := store.professors[prof.ProfessorID]
	if migrated.CycleID != resp.ID {
		t.Errorf("教授未迁移到新周期: %s", migrated.CycleID)
	}
	if migrated.CurrentStudents != 0 {
		t.Errorf("教授计数未清零: %d", migrated.CurrentStudents)
	}

	// 学生、志愿、分配全部清空
	if len(store.students) != 0 || len(store.proposals) != 0 || len(store.assignments) != 0 {
		t.Errorf("轮换后残留数据: students=%d proposals=%d assignments=%d",
			len(store.students), len(store.proposals), len(store.assignments))
	}
}

func TestUpdateCycleNotFound(t *testing.T) {
	_, svc := newCycleTestEnv()
	if _, err := svc.Update(context.Background(), "missing", &dto.UpdateCycleRequest{Name: "X"}); !errors.Is(err, ErrCycleNotFound) {
		t.Fatalf("期望 ErrCycleNotFound，实际 %v", err)
	}
}
