package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"tesis-hub/backend/internal/dto"
	"tesis-hub/backend/internal/model"
)

func newProposalTestEnv() (*mockStore, ProposalService) {
	store := newMockStore()
	return store, NewProposalService(newMockRepo(store), zap.NewNop())
}

// ────────────────────── Create ──────────────────────

func TestCreateProposalFillsLowestFreeSlot(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSubmissions)
	student := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", true)
	profA := store.addProfessor(cycle.CycleID, "Prof A", nil, 0)
	profB := store.addProfessor(cycle.CycleID, "Prof B", nil, 0)
	profC := store.addProfessor(cycle.CycleID, "Prof C", nil, 0)

	// 已占用优先级 1 和 3，新志愿应落在空位 2
	store.addProposal(student.StudentID, profA.ProfessorID, 1, model.ProposalStatusPending)
	store.addProposal(student.StudentID, profB.ProfessorID, 3, model.ProposalStatusPending)

	resp, err := svc.Create(context.Background(), student.StudentID, &dto.CreateProposalRequest{
		ProfessorID: profC.ProfessorID,
	})
	if err != nil {
		t.Fatalf("创建志愿失败: %v", err)
	}
	if resp.ProposalOrder != 2 {
		t.Errorf("期望优先级 2，实际 %d", resp.ProposalOrder)
	}
}

func TestCreateProposalRequiresCompleteProfile(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSubmissions)
	student := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", false)
	prof := store.addProfessor(cycle.CycleID, "Prof A", nil, 0)

	_, err := svc.Create(context.Background(), student.StudentID, &dto.CreateProposalRequest{
		ProfessorID: prof.ProfessorID,
	})
	if !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("期望 ErrProfileIncomplete，实际 %v", err)
	}
}

func TestCreateProposalRejectsSixth(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSubmissions)
	student := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", true)
	for order := 1; order <= model.MaxProposalsPerStudent; order++ {
		prof := store.addProfessor(cycle.CycleID, "Prof", nil, 0)
		store.addProposal(student.StudentID, prof.ProfessorID, order, model.ProposalStatusPending)
	}
	extra := store.addProfessor(cycle.CycleID, "Prof Extra", nil, 0)

	_, err := svc.Create(context.Background(), student.StudentID, &dto.CreateProposalRequest{
		ProfessorID: extra.ProfessorID,
	})
	if !errors.Is(err, ErrMaxProposals) {
		t.Fatalf("期望 ErrMaxProposals，实际 %v", err)
	}
}

func TestCreateProposalRejectsDuplicateProfessor(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSubmissions)
	student := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", true)
	prof := store.addProfessor(cycle.CycleID, "Prof A", nil, 0)
	store.addProposal(student.StudentID, prof.ProfessorID, 1, model.ProposalStatusRejected)

	// 即使此前已被拒绝，也不能再次申请同一教授
	_, err := svc.Create(context.Background(), student.StudentID, &dto.CreateProposalRequest{
		ProfessorID: prof.ProfessorID,
	})
	if !errors.Is(err, ErrDuplicateProfessor) {
		t.Fatalf("期望 ErrDuplicateProfessor，实际 %v", err)
	}
}

// ────────────────────── Reorder ──────────────────────

func TestReorderSwapsAdjacentAndIsSymmetric(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSubmissions)
	student := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", true)
	profA := store.addProfessor(cycle.CycleID, "Prof A", nil, 0)
	profB := store.addProfessor(cycle.CycleID, "Prof B", nil, 0)
	first := store.addProposal(student.StudentID, profA.ProfessorID, 1, model.ProposalStatusPending)
	second := store.addProposal(student.StudentID, profB.ProfessorID, 2, model.ProposalStatusPending)

	list, err := svc.Reorder(context.Background(), student.StudentID, second.ProposalID, &dto.ReorderProposalRequest{Direction: "up"})
	if err != nil {
		t.Fatalf("上移失败: %v", err)
	}
	if list[0].ID != second.ProposalID || list[1].ID != first.ProposalID {
		t.Fatalf("上移后顺序错误: %v", list)
	}

	// 再下移一次应恢复原序
	list, err = svc.Reorder(context.Background(), student.StudentID, second.ProposalID, &dto.ReorderProposalRequest{Direction: "down"})
	if err != nil {
		t.Fatalf("下移失败: %v", err)
	}
	if list[0].ID != first.ProposalID || list[1].ID != second.ProposalID {
		t.Fatalf("下移后未恢复原序: %v", list)
	}
}

func TestReorderRejectsBoundaryAndEmptySlot(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSubmissions)
	student := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", true)
	profA := store.addProfessor(cycle.CycleID, "Prof A", nil, 0)
	top := store.addProposal(student.StudentID, profA.ProfessorID, 1, model.ProposalStatusPending)

	if _, err := svc.Reorder(context.Background(), student.StudentID, top.ProposalID, &dto.ReorderProposalRequest{Direction: "up"}); !errors.Is(err, ErrCannotMove) {
		t.Errorf("首位上移期望 ErrCannotMove，实际 %v", err)
	}
	// 下方为空位，同样不可移动
	if _, err := svc.Reorder(context.Background(), student.StudentID, top.ProposalID, &dto.ReorderProposalRequest{Direction: "down"}); !errors.Is(err, ErrCannotMove) {
		t.Errorf("空位下移期望 ErrCannotMove，实际 %v", err)
	}
}

func TestReorderRejectsAcceptedProposal(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSubmissions)
	student := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", true)
	profA := store.addProfessor(cycle.CycleID, "Prof A", nil, 0)
	profB := store.addProfessor(cycle.CycleID, "Prof B", nil, 0)
	accepted := store.addProposal(student.StudentID, profA.ProfessorID, 1, model.ProposalStatusAccepted)
	store.addProposal(student.StudentID, profB.ProfessorID, 2, model.ProposalStatusPending)

	if _, err := svc.Reorder(context.Background(), student.StudentID, accepted.ProposalID, &dto.ReorderProposalRequest{Direction: "down"}); !errors.Is(err, ErrCannotMove) {
		t.Fatalf("已接受志愿移动期望 ErrCannotMove，实际 %v", err)
	}
}

func TestReorderSwapsPastAcceptedNeighbor(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSubmissions)
	student := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", true)
	profA := store.addProfessor(cycle.CycleID, "Prof A", nil, 0)
	profB := store.addProfessor(cycle.CycleID, "Prof B", nil, 0)
	accepted := store.addProposal(student.StudentID, profA.ProfessorID, 1, model.ProposalStatusAccepted)
	pending := store.addProposal(student.StudentID, profB.ProfessorID, 2, model.ProposalStatusPending)

	// 待处理志愿可越过已接受的对端上移，对端被动换位
	list, err := svc.Reorder(context.Background(), student.StudentID, pending.ProposalID, &dto.ReorderProposalRequest{Direction: "up"})
	if err != nil {
		t.Fatalf("越过已接受对端上移失败: %v", err)
	}
	if list[0].ID != pending.ProposalID || list[1].ID != accepted.ProposalID {
		t.Fatalf("换位后顺序错误: %v", list)
	}
	// 双方状态不受换位影响
	if list[0].Status != model.ProposalStatusPending || list[1].Status != model.ProposalStatusAccepted {
		t.Fatalf("换位后状态被篡改: %v", list)
	}
}

func TestReorderRejectsForeignProposal(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSubmissions)
	owner := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", true)
	other := store.addStudent(cycle.CycleID, "Luis Rojas", "B99999", true)
	prof := store.addProfessor(cycle.CycleID, "Prof A", nil, 0)
	proposal := store.addProposal(owner.StudentID, prof.ProfessorID, 1, model.ProposalStatusPending)

	if _, err := svc.Reorder(context.Background(), other.StudentID, proposal.ProposalID, &dto.ReorderProposalRequest{Direction: "down"}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("期望 ErrNotOwner，实际 %v", err)
	}
}

// ────────────────────── EditProfessor / Delete ──────────────────────

func TestEditProfessorKeepsOrderAndChecksCollision(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSubmissions)
	student := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", true)
	profA := store.addProfessor(cycle.CycleID, "Prof A", nil, 0)
	profB := store.addProfessor(cycle.CycleID, "Prof B", nil, 0)
	profC := store.addProfessor(cycle.CycleID, "Prof C", nil, 0)
	target := store.addProposal(student.StudentID, profA.ProfessorID, 2, model.ProposalStatusPending)
	store.addProposal(student.StudentID, profB.ProfessorID, 1, model.ProposalStatusPending)

	// 换到与其它志愿冲突的教授被拒绝
	if _, err := svc.EditProfessor(context.Background(), student.StudentID, target.ProposalID, &dto.EditProposalProfessorRequest{ProfessorID: profB.ProfessorID}); !errors.Is(err, ErrDuplicateProfessor) {
		t.Fatalf("期望 ErrDuplicateProfessor，实际 %v", err)
	}

	resp, err := svc.EditProfessor(context.Background(), student.StudentID, target.ProposalID, &dto.EditProposalProfessorRequest{ProfessorID: profC.ProfessorID})
	if err != nil {
		t.Fatalf("更换教授失败: %v", err)
	}
	if resp.ProfessorID != profC.ProfessorID {
		t.Errorf("教授未更换: %s", resp.ProfessorID)
	}
	if resp.ProposalOrder != 2 {
		t.Errorf("更换教授后优先级应保持 2，实际 %d", resp.ProposalOrder)
	}
}

func TestDeleteProposalPendingOnly(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSubmissions)
	student := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", true)
	prof := store.addProfessor(cycle.CycleID, "Prof A", nil, 0)
	accepted := store.addProposal(student.StudentID, prof.ProfessorID, 1, model.ProposalStatusAccepted)

	if err := svc.Delete(context.Background(), student.StudentID, accepted.ProposalID); !errors.Is(err, ErrNotPending) {
		t.Fatalf("删除已接受志愿期望 ErrNotPending，实际 %v", err)
	}

	profB := store.addProfessor(cycle.CycleID, "Prof B", nil, 0)
	pending := store.addProposal(student.StudentID, profB.ProfessorID, 2, model.ProposalStatusPending)
	if err := svc.Delete(context.Background(), student.StudentID, pending.ProposalID); err != nil {
		t.Fatalf("删除待处理志愿失败: %v", err)
	}
	if _, ok := store.proposals[pending.ProposalID]; ok {
		t.Error("志愿仍残留在存储中")
	}
}

// ────────────────────── Decide ──────────────────────

func TestDecideAcceptIncrementsCounter(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSelections)
	student := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", true)
	max := 3
	prof := store.addProfessor(cycle.CycleID, "Prof A", &max, 0)
	proposal := store.addProposal(student.StudentID, prof.ProfessorID, 1, model.ProposalStatusPending)

	resp, err := svc.Decide(context.Background(), prof.ProfessorID, proposal.ProposalID, &dto.DecideProposalRequest{Status: model.ProposalStatusAccepted})
	if err != nil {
		t.Fatalf("接受志愿失败: %v", err)
	}
	if resp.Status != model.ProposalStatusAccepted {
		t.Errorf("状态未变更: %s", resp.Status)
	}
	if got := store.professors[prof.ProfessorID].CurrentStudents; got != 1 {
		t.Errorf("接受后计数应为 1，实际 %d", got)
	}
}

func TestDecideRejectsWhenCapacityFull(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSelections)
	student := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", true)
	max := 2
	prof := store.addProfessor(cycle.CycleID, "Prof A", &max, 2)
	proposal := store.addProposal(student.StudentID, prof.ProfessorID, 1, model.ProposalStatusPending)

	_, err := svc.Decide(context.Background(), prof.ProfessorID, proposal.ProposalID, &dto.DecideProposalRequest{Status: model.ProposalStatusAccepted})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("期望 ErrCapacityExceeded，实际 %v", err)
	}
	// 失败路径不得留下任何副作用
	if got := store.professors[prof.ProfessorID].CurrentStudents; got != 2 {
		t.Errorf("计数不应变化，实际 %d", got)
	}
	if got := store.proposals[proposal.ProposalID].Status; got != model.ProposalStatusPending {
		t.Errorf("志愿状态不应变化，实际 %s", got)
	}
}

func TestDecideWithdrawDecrementsCounter(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSelections)
	student := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", true)
	prof := store.addProfessor(cycle.CycleID, "Prof A", nil, 1)
	proposal := store.addProposal(student.StudentID, prof.ProfessorID, 1, model.ProposalStatusAccepted)

	if _, err := svc.Decide(context.Background(), prof.ProfessorID, proposal.ProposalID, &dto.DecideProposalRequest{Status: model.ProposalStatusPending}); err != nil {
		t.Fatalf("撤回决定失败: %v", err)
	}
	if got := store.professors[prof.ProfessorID].CurrentStudents; got != 0 {
		t.Errorf("撤回后计数应为 0，实际 %d", got)
	}
}

func TestDecideTransitionWhitelist(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSelections)
	student := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", true)
	prof := store.addProfessor(cycle.CycleID, "Prof A", nil, 0)
	rejected := store.addProposal(student.StudentID, prof.ProfessorID, 1, model.ProposalStatusRejected)

	// rejected 只能回到 pending，不能直接 accepted
	if _, err := svc.Decide(context.Background(), prof.ProfessorID, rejected.ProposalID, &dto.DecideProposalRequest{Status: model.ProposalStatusAccepted}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("期望 ErrInvalidTransition，实际 %v", err)
	}
	if _, err := svc.Decide(context.Background(), prof.ProfessorID, rejected.ProposalID, &dto.DecideProposalRequest{Status: model.ProposalStatusPending}); err != nil {
		t.Fatalf("重新开放失败: %v", err)
	}
}

func TestDecideRejectsForeignProposal(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSelections)
	student := store.addStudent(cycle.CycleID, "Ana Mora", "B12345", true)
	owner := store.addProfessor(cycle.CycleID, "Prof A", nil, 0)
	other := store.addProfessor(cycle.CycleID, "Prof B", nil, 0)
	proposal := store.addProposal(student.StudentID, owner.ProfessorID, 1, model.ProposalStatusPending)

	if _, err := svc.Decide(context.Background(), other.ProfessorID, proposal.ProposalID, &dto.DecideProposalRequest{Status: model.ProposalStatusAccepted}); !errors.Is(err, ErrNotAddressee) {
		t.Fatalf("期望 ErrNotAddressee，实际 %v", err)
	}
}

// ────────────────────── Inbox ──────────────────────

func TestInboxCountsAndSlots(t *testing.T) {
	store, svc := newProposalTestEnv()
	cycle := store.addCycle("Ciclo 2026", model.CycleStatusSelections)
	max := 3
	prof := store.addProfessor(cycle.CycleID, "Prof A", &max, 1)
	s1 := store.addStudent(cycle.CycleID, "Ana Mora", "B11111", true)
	s2 := store.addStudent(cycle.CycleID, "Luis Rojas", "B22222", true)
	s3 := store.addStudent(cycle.CycleID, "Marta Solis", "B33333", true)
	store.addProposal(s1.StudentID, prof.ProfessorID, 1, model.ProposalStatusAccepted)
	store.addProposal(s2.StudentID, prof.ProfessorID, 1, model.ProposalStatusPending)
	store.addProposal(s3.StudentID, prof.ProfessorID, 2, model.ProposalStatusRejected)

	resp, err := svc.Inbox(context.Background(), prof.ProfessorID)
	if err != nil {
		t.Fatalf("查询收件箱失败: %v", err)
	}
	if resp.Pending != 1 || resp.Accepted != 1 {
		t.Errorf("统计错误: pending=%d accepted=%d", resp.Pending, resp.Accepted)
	}
	if resp.AvailableSlots == nil || *resp.AvailableSlots != 2 {
		t.Errorf("剩余名额错误: %v", resp.AvailableSlots)
	}
	if len(resp.List) != 3 {
		t.Fatalf("收件箱条目数错误: %d", len(resp.List))
	}
	for _, item := range resp.List {
		if item.StudentName == "" || item.UniversityID == "" {
			t.Errorf("条目缺少学生资料: %+v", item)
		}
	}
}
