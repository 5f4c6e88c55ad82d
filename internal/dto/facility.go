package dto

// ── 场馆 / 打卡点模块 DTO ──

// CreateFacilityRequest 创建场馆请求
type CreateFacilityRequest struct {
	Name    string `json:"name"    binding:"required,max=100"`
	Address string `json:"address" binding:"omitempty,max=200"`
}

// UpdateFacilityRequest 更新场馆请求
type UpdateFacilityRequest struct {
	Name    *string `json:"name"    binding:"omitempty,max=100"`
	Address *string `json:"address" binding:"omitempty,max=200"`
	Active  *bool   `json:"active"`
}

// FacilityResponse 场馆信息响应
type FacilityResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	Active  bool    `json:"active"`
}

// CreateLocationRequest 创建打卡点请求
// qr_value 缺省时按 QR_<场馆ID> 生成
type CreateLocationRequest struct {
	FacilityID  string `json:"facility_id" binding:"required"`
	Name        string `json:"name"        binding:"required,max=100"`
	Description string `json:"description" binding:"omitempty,max=200"`
	QRValue     string `json:"qr_value"    binding:"omitempty,max=200"`
}

// UpdateLocationRequest 更新打卡点请求
type UpdateLocationRequest struct {
	Name        *string `json:"name"        binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	QRValue     *string `json:"qr_value"    binding:"omitempty,max=200"`
}

// LocationResponse 打卡点信息响应
type LocationResponse struct {
	ID          string  `json:"id"`
	FacilityID  string  `json:"facility_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	QRValue     string  `json:"qr_value"`
}
