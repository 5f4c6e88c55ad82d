package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/IceBJJ/training-attendance-api/internal/dto"
	"github.com/IceBJJ/training-attendance-api/internal/model"
	"github.com/IceBJJ/training-attendance-api/internal/repository"
)

// ── 测试辅助 ──

func setupTestMemberService() (MemberService, *mockMemberRepo) {
	memberRepo := newMockMemberRepo()
	facilityRepo := newMockFacilityRepo()
	repo := &repository.Repository{
		Member:     memberRepo,
		Facility:   facilityRepo,
		Location:   newMockLocationRepo(facilityRepo),
		Attendance: newMockAttendanceRepo(),
	}
	svc := NewMemberService(repo, zap.NewNop())
	return svc, memberRepo
}

func strp(s string) *string { return &s }

// ── normalizePhone ──

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5135551234", "5135551234"},
		{"(513) 555-1234", "5135551234"},
		{"513.555.1234", "5135551234"},
		{"+1 513 555 1234", "5135551234"}, // 超过10位取末10位（去掉国家码）
		{"15135551234", "5135551234"},
		{"555-1234", "5551234"},
		{"", ""},
		{"abc", ""},
	}

	for _, tc := range cases {
		if got := normalizePhone(tc.in); got != tc.want {
			t.Errorf("normalizePhone(%q) 期望=%q，实际=%q", tc.in, tc.want, got)
		}
	}
}

// ── resolveMember ──

func TestResolveMember_PhoneDisambiguation(t *testing.T) {
	_, memberRepo := setupTestMemberService()

	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	memberRepo.members["MEM_001"] = &model.Member{
		MemberID: "MEM_001", FirstName: "Jane", LastName: "Doe",
		Phone: strp("5135551111"), IsActive: true, CreatedAt: t1,
	}
	memberRepo.members["MEM_002"] = &model.Member{
		MemberID: "MEM_002", FirstName: "Jane", LastName: "Doe",
		Phone: strp("5135552222"), IsActive: true, CreatedAt: t1.Add(time.Hour),
	}

	// 手机号命中第二位同名会员（格式不同也能匹配）
	m, err := resolveMember(context.Background(), memberRepo, "Jane", "Doe", "(513) 555-2222")
	if err != nil {
		t.Fatalf("resolveMember 应成功: %v", err)
	}
	if m.MemberID != "MEM_002" {
		t.Errorf("期望MEM_002，实际=%s", m.MemberID)
	}

	// 提供了手机号但无匹配时不回退到同名结果
	_, err = resolveMember(context.Background(), memberRepo, "Jane", "Doe", "5135559999")
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("手机号不匹配期望 ErrMemberNotFound，实际: %v", err)
	}
}

func TestResolveMember_NoPhone_DeterministicPick(t *testing.T) {
	_, memberRepo := setupTestMemberService()

	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	memberRepo.members["MEM_B"] = &model.Member{
		MemberID: "MEM_B", FirstName: "Jane", LastName: "Doe",
		IsActive: true, CreatedAt: t1.Add(time.Hour),
	}
	memberRepo.members["MEM_A"] = &model.Member{
		MemberID: "MEM_A", FirstName: "Jane", LastName: "Doe",
		IsActive: true, CreatedAt: t1,
	}

	// 未提供手机号时取建档最早的一位
	for i := 0; i < 5; i++ {
		m, err := resolveMember(context.Background(), memberRepo, "Jane", "Doe", "")
		if err != nil {
			t.Fatalf("resolveMember 应成功: %v", err)
		}
		if m.MemberID != "MEM_A" {
			t.Fatalf("期望确定性选取MEM_A，实际=%s", m.MemberID)
		}
	}
}

func TestResolveMember_NameTrimmed(t *testing.T) {
	_, memberRepo := setupTestMemberService()
	memberRepo.members["MEM_001"] = &model.Member{
		MemberID: "MEM_001", FirstName: "John", LastName: "Silva", IsActive: true,
	}

	m, err := resolveMember(context.Background(), memberRepo, "  John ", " Silva  ", "")
	if err != nil {
		t.Fatalf("resolveMember 应成功: %v", err)
	}
	if m.MemberID != "MEM_001" {
		t.Errorf("期望MEM_001，实际=%s", m.MemberID)
	}
}

func TestResolveMember_BlankName(t *testing.T) {
	_, memberRepo := setupTestMemberService()

	_, err := resolveMember(context.Background(), memberRepo, "   ", "Silva", "")
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("空名字期望 ErrMemberNotFound，实际: %v", err)
	}
}

// ── Lookup ──

func TestMemberService_Lookup_Valid(t *testing.T) {
	svc, memberRepo := setupTestMemberService()
	memberRepo.members["MEM_001"] = &model.Member{
		MemberID: "MEM_001", FirstName: "John", LastName: "Silva",
		StudentType: model.StudentTypeAdult, IsActive: true,
	}

	resp, err := svc.Lookup(context.Background(), "john", "SILVA", "")
	if err != nil {
		t.Fatalf("Lookup 应成功: %v", err)
	}
	if !resp.Valid {
		t.Error("期望valid=true")
	}
	if resp.Member == nil || resp.Member.ID != "MEM_001" {
		t.Errorf("期望返回会员信息，实际=%+v", resp.Member)
	}
}

func TestMemberService_Lookup_NotFound(t *testing.T) {
	svc, _ := setupTestMemberService()

	resp, err := svc.Lookup(context.Background(), "Nobody", "Here", "")
	if err != nil {
		t.Fatalf("查无会员不应作为错误: %v", err)
	}
	if resp.Valid {
		t.Error("期望valid=false")
	}
	if resp.Reason != "Not found" {
		t.Errorf("期望reason=Not found，实际=%s", resp.Reason)
	}
}

func TestMemberService_Lookup_Inactive(t *testing.T) {
	svc, memberRepo := setupTestMemberService()
	memberRepo.members["MEM_001"] = &model.Member{
		MemberID: "MEM_001", FirstName: "John", LastName: "Silva", IsActive: false,
	}

	resp, err := svc.Lookup(context.Background(), "John", "Silva", "")
	if err != nil {
		t.Fatalf("停用会员不应作为错误: %v", err)
	}
	if resp.Valid {
		t.Error("期望valid=false")
	}
	if resp.Reason != "Inactive" {
		t.Errorf("期望reason=Inactive，实际=%s", resp.Reason)
	}
}

// ── Create ──

func TestMemberService_Create_Success(t *testing.T) {
	svc, _ := setupTestMemberService()

	resp, err := svc.Create(context.Background(), &dto.CreateMemberRequest{
		FirstName:   "John",
		LastName:    "Silva",
		Phone:       "(513) 555-1234",
		StudentType: model.StudentTypeAdult,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Phone == nil || *resp.Phone != "5135551234" {
		t.Errorf("手机号应规范化为5135551234，实际=%v", resp.Phone)
	}
	if !resp.Active {
		t.Error("默认应为在职")
	}
}

func TestMemberService_Create_Duplicate(t *testing.T) {
	svc, _ := setupTestMemberService()

	req := &dto.CreateMemberRequest{
		FirstName: "John", LastName: "Silva",
		Phone: "5135551234", StudentType: model.StudentTypeAdult,
	}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}

	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, ErrMemberExists) {
		t.Errorf("期望 ErrMemberExists，实际: %v", err)
	}
}

func TestMemberService_Create_BadPromotionDate(t *testing.T) {
	svc, _ := setupTestMemberService()

	_, err := svc.Create(context.Background(), &dto.CreateMemberRequest{
		FirstName: "John", LastName: "Silva",
		StudentType:        model.StudentTypeAdult,
		PromotionStartDate: "15/01/2024",
	})
	if !errors.Is(err, ErrBadPromotionDate) {
		t.Errorf("期望 ErrBadPromotionDate，实际: %v", err)
	}
}

// ── Update ──

func TestMemberService_Update_Deactivate(t *testing.T) {
	svc, memberRepo := setupTestMemberService()
	memberRepo.members["MEM_001"] = &model.Member{
		MemberID: "MEM_001", FirstName: "John", LastName: "Silva",
		StudentType: model.StudentTypeAdult, IsActive: true,
	}

	inactive := false
	resp, err := svc.Update(context.Background(), "MEM_001", &dto.UpdateMemberRequest{
		Active: &inactive,
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.Active {
		t.Error("期望停用后active=false")
	}
}

func TestMemberService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestMemberService()

	_, err := svc.Update(context.Background(), "nonexistent", &dto.UpdateMemberRequest{})
	if !errors.Is(err, ErrMemberRecordMissing) {
		t.Errorf("期望 ErrMemberRecordMissing，实际: %v", err)
	}
}

// ── ImportMembers ──

func TestMemberService_ImportMembers_CreateAndUpdate(t *testing.T) {
	svc, memberRepo := setupTestMemberService()
	memberRepo.members["MEM_001"] = &model.Member{
		MemberID: "MEM_001", FirstName: "Jane", LastName: "Doe",
		Phone: strp("5135551111"), StudentType: model.StudentTypeAdult, IsActive: true,
	}

	rows := []ImportMemberRow{
		{Row: 2, FirstName: "Jane", LastName: "Doe", Phone: "513-555-1111",
			BeltRank: "blue", StudentType: "adult"},
		{Row: 3, FirstName: "Tom", LastName: "Gracie", Phone: "5135553333",
			StudentType: "youth", Active: "1"},
		{Row: 4, FirstName: "Bad", LastName: "Row", StudentType: "unknown"},
	}

	resp, err := svc.ImportMembers(context.Background(), rows)
	if err != nil {
		t.Fatalf("ImportMembers 应成功: %v", err)
	}
	if resp.Created != 1 {
		t.Errorf("期望created=1，实际=%d", resp.Created)
	}
	if resp.Updated != 1 {
		t.Errorf("期望updated=1，实际=%d", resp.Updated)
	}
	if resp.Skipped != 1 || len(resp.Errors) != 1 {
		t.Errorf("期望skipped=1，实际=%d（errors=%d）", resp.Skipped, len(resp.Errors))
	}
	if resp.Errors[0].Row != 4 {
		t.Errorf("失败行号期望4，实际=%d", resp.Errors[0].Row)
	}

	updated := memberRepo.members["MEM_001"]
	if updated.BeltRank == nil || *updated.BeltRank != "blue" {
		t.Errorf("导入应更新既有会员腰带，实际=%v", updated.BeltRank)
	}
}

// ── parsePromotionDate / parseActiveFlag ──

func TestParsePromotionDate(t *testing.T) {
	d, err := parsePromotionDate("2024-01-15")
	if err != nil || d == nil {
		t.Fatalf("YYYY-MM-DD 应解析成功: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.January || d.Day() != 15 {
		t.Errorf("日期解析不符，实际=%v", d)
	}

	if d, err := parsePromotionDate("2024-01-15T09:00:00"); err != nil || d == nil {
		t.Errorf("无时区 ISO 日期时间应解析成功: %v", err)
	}
	if d, err := parsePromotionDate("2024-01-15T09:00:00Z"); err != nil || d == nil {
		t.Errorf("RFC3339 应解析成功: %v", err)
	}

	if d, err := parsePromotionDate("  "); err != nil || d != nil {
		t.Errorf("空白应返回 nil, nil，实际: %v, %v", d, err)
	}

	if _, err := parsePromotionDate("Jan 15 2024"); !errors.Is(err, ErrBadPromotionDate) {
		t.Errorf("非法格式期望 ErrBadPromotionDate，实际: %v", err)
	}
}

func TestParseActiveFlag(t *testing.T) {
	for _, v := range []string{"", "1", "true", "YES", "y"} {
		got, err := parseActiveFlag(v)
		if err != nil || !got {
			t.Errorf("parseActiveFlag(%q) 期望true，实际=%v, %v", v, got, err)
		}
	}
	for _, v := range []string{"0", "false", "NO", "n"} {
		got, err := parseActiveFlag(v)
		if err != nil || got {
			t.Errorf("parseActiveFlag(%q) 期望false，实际=%v, %v", v, got, err)
		}
	}
	if _, err := parseActiveFlag("maybe"); err == nil {
		t.Error("非法取值应报错")
	}
}
