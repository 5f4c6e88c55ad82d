package dto

// ── 会员模块 DTO ──

// CreateMemberRequest 创建会员请求
type CreateMemberRequest struct {
	FirstName          string  `json:"first_name"           binding:"required,max=100"`
	LastName           string  `json:"last_name"            binding:"required,max=100"`
	Phone              string  `json:"phone"                binding:"omitempty,max=30"`
	Address            string  `json:"address"              binding:"omitempty,max=200"`
	BeltRank           string  `json:"belt_rank"            binding:"omitempty,max=50"`
	PromotionStartDate string  `json:"promotion_start_date" binding:"omitempty"` // YYYY-MM-DD 或 ISO 日期时间
	StudentType        string  `json:"student_type"         binding:"required,oneof=adult youth"`
	Active             *bool   `json:"active"`
}

// UpdateMemberRequest 更新会员请求
type UpdateMemberRequest struct {
	FirstName          *string `json:"first_name"           binding:"omitempty,max=100"`
	LastName           *string `json:"last_name"            binding:"omitempty,max=100"`
	Phone              *string `json:"phone"                binding:"omitempty,max=30"`
	Address            *string `json:"address"              binding:"omitempty,max=200"`
	BeltRank           *string `json:"belt_rank"            binding:"omitempty,max=50"`
	PromotionStartDate *string `json:"promotion_start_date" binding:"omitempty"`
	StudentType        *string `json:"student_type"         binding:"omitempty,oneof=adult youth"`
	Active             *bool   `json:"active"`
}

// MemberListRequest 会员列表查询参数
type MemberListRequest struct {
	Page     int `form:"page,default=1"       binding:"omitempty,min=1"`
	PageSize int `form:"page_size,default=50" binding:"omitempty,min=1,max=200"`
}

// MemberResponse 会员信息响应
type MemberResponse struct {
	ID                 string  `json:"id"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	Phone              *string `json:"phone,omitempty"`
	Address            *string `json:"address,omitempty"`
	BeltRank           *string `json:"belt_rank,omitempty"`
	PromotionStartDate *string `json:"promotion_start_date,omitempty"`
	StudentType        string  `json:"student_type"`
	Active             bool    `json:"active"`
	CreatedAt          string  `json:"created_at"`
}

// LookupResponse 会员资格查询响应（扫码端扁平格式）
type LookupResponse struct {
	Valid  bool            `json:"valid"`
	Reason string          `json:"reason,omitempty"` // "Not found" | "Inactive"
	Member *MemberResponse `json:"member,omitempty"`
}

// ImportRowError 导入失败行明细
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportMemberResponse 花名册导入结果
type ImportMemberResponse struct {
	Total   int              `json:"total"`
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors,omitempty"`
}
