package dto

// ── 周期模块 DTO ──

// RotateCycleRequest 周期轮换请求
type RotateCycleRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// UpdateCycleRequest 更新周期请求（仅名称可编辑）
type UpdateCycleRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// AdvanceCycleStatusRequest 周期状态推进请求
type AdvanceCycleStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=setup submissions selections closed"`
}

// CycleResponse 周期信息响应
type CycleResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// RotationPreviewResponse 轮换级联影响预览
// 提交轮换前展示将被清除/迁移的数据量
type RotationPreviewResponse struct {
	Students    int64 `json:"students"`
	Proposals   int64 `json:"proposals"`
	Assignments int64 `json:"assignments"`
	Professors  int64 `json:"professors"` // 迁移（保留）而非删除
}
