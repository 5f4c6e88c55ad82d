package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/IceBJJ/training-attendance-api/internal/model"
)

// ── Mock MemberRepository ──

type mockMemberRepo struct {
	members map[string]*model.Member
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{members: make(map[string]*model.Member)}
}

func (m *mockMemberRepo) Create(_ context.Context, member *model.Member) error {
	if member.MemberID == "" {
		member.MemberID = fmt.Sprintf("MEM_%04d", len(m.members)+1)
	}
	m.members[member.MemberID] = member
	return nil
}

func (m *mockMemberRepo) GetByID(_ context.Context, id string) (*model.Member, error) {
	if mem, ok := m.members[id]; ok {
		return mem, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) ListByName(_ context.Context, firstName, lastName string) ([]model.Member, error) {
	var result []model.Member
	for _, mem := range m.members {
		if strings.EqualFold(mem.FirstName, firstName) && strings.EqualFold(mem.LastName, lastName) {
			result = append(result, *mem)
		}
	}
	// 与 GORM 实现保持一致的排序：created_at ASC, id ASC
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].MemberID < result[j].MemberID
	})
	return result, nil
}

func (m *mockMemberRepo) GetByIdentity(_ context.Context, firstName, lastName string, phone *string) (*model.Member, error) {
	for _, mem := range m.members {
		if !strings.EqualFold(mem.FirstName, firstName) || !strings.EqualFold(mem.LastName, lastName) {
			continue
		}
		if phone == nil && mem.Phone == nil {
			return mem, nil
		}
		if phone != nil && mem.Phone != nil && *phone == *mem.Phone {
			return mem, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) List(_ context.Context, offset, limit int) ([]model.Member, int64, error) {
	var all []model.Member
	for _, mem := range m.members {
		all = append(all, *mem)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].LastName != all[j].LastName {
			return all[i].LastName < all[j].LastName
		}
		return all[i].FirstName < all[j].FirstName
	})

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockMemberRepo) Update(_ context.Context, member *model.Member) error {
	m.members[member.MemberID] = member
	return nil
}

// ── Mock FacilityRepository ──

type mockFacilityRepo struct {
	facilities map[string]*model.Facility
}

func newMockFacilityRepo() *mockFacilityRepo {
	return &mockFacilityRepo{facilities: make(map[string]*model.Facility)}
}

func (m *mockFacilityRepo) Create(_ context.Context, facility *model.Facility) error {
	if facility.FacilityID == "" {
		facility.FacilityID = "FAC_" + facility.Name
	}
	m.facilities[facility.FacilityID] = facility
	return nil
}

func (m *mockFacilityRepo) GetByID(_ context.Context, id string) (*model.Facility, error) {
	if f, ok := m.facilities[id]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFacilityRepo) List(_ context.Context, includeInactive bool) ([]model.Facility, error) {
	var result []model.Facility
	for _, f := range m.facilities {
		if !includeInactive && !f.IsActive {
			continue
		}
		result = append(result, *f)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockFacilityRepo) Update(_ context.Context, facility *model.Facility) error {
	m.facilities[facility.FacilityID] = facility
	return nil
}

// ── Mock LocationRepository ──

type mockLocationRepo struct {
	locations  map[string]*model.Location
	facilities *mockFacilityRepo
}

func newMockLocationRepo(facilities *mockFacilityRepo) *mockLocationRepo {
	return &mockLocationRepo{
		locations:  make(map[string]*model.Location),
		facilities: facilities,
	}
}

func (m *mockLocationRepo) Create(_ context.Context, loc *model.Location) error {
	if loc.LocationID == "" {
		loc.LocationID = "LOC_" + loc.Name
	}
	m.locations[loc.LocationID] = loc
	return nil
}

func (m *mockLocationRepo) GetByID(_ context.Context, id string) (*model.Location, error) {
	if loc, ok := m.locations[id]; ok {
		return m.withFacility(loc), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) GetByQRValue(_ context.Context, qrValue string) (*model.Location, error) {
	for _, loc := range m.locations {
		if loc.QRValue == qrValue {
			return m.withFacility(loc), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) List(_ context.Context, facilityID string) ([]model.Location, error) {
	var result []model.Location
	for _, loc := range m.locations {
		if facilityID != "" && loc.FacilityID != facilityID {
			continue
		}
		result = append(result, *loc)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FacilityID != result[j].FacilityID {
			return result[i].FacilityID < result[j].FacilityID
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *mockLocationRepo) Update(_ context.Context, loc *model.Location) error {
	m.locations[loc.LocationID] = loc
	return nil
}

// withFacility 模拟 GORM 的 Preload("Facility")
func (m *mockLocationRepo) withFacility(loc *model.Location) *model.Location {
	copied := *loc
	if m.facilities != nil {
		if f, ok := m.facilities.facilities[loc.FacilityID]; ok {
			copied.Facility = f
		}
	}
	return &copied
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	events []model.AttendanceEvent
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{}
}

func (m *mockAttendanceRepo) Create(_ context.Context, event *model.AttendanceEvent) error {
	if event.AttendanceID == "" {
		event.AttendanceID = fmt.Sprintf("ATT_%04d", len(m.events)+1)
	}
	m.events = append(m.events, *event)
	return nil
}

func (m *mockAttendanceRepo) LastByMemberAtFacility(_ context.Context, memberID, facilityID string) (*model.AttendanceEvent, error) {
	var last *model.AttendanceEvent
	for i := range m.events {
		e := &m.events[i]
		if e.MemberID != memberID || e.FacilityID != facilityID {
			continue
		}
		if last == nil || e.CheckInTime.After(last.CheckInTime) {
			last = e
		}
	}
	return last, nil
}

func (m *mockAttendanceRepo) ListRecent(_ context.Context, limit int) ([]model.AttendanceEvent, error) {
	result := make([]model.AttendanceEvent, len(m.events))
	copy(result, m.events)
	sort.Slice(result, func(i, j int) bool {
		return result[i].CheckInTime.After(result[j].CheckInTime)
	})
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockAttendanceRepo) CountByMemberSince(_ context.Context, memberID string, since *time.Time) (int64, error) {
	var total int64
	for i := range m.events {
		e := &m.events[i]
		if e.MemberID != memberID {
			continue
		}
		if since != nil && e.CheckInTime.Before(*since) {
			continue
		}
		total++
	}
	return total, nil
}

func (m *mockAttendanceRepo) ListByMemberSince(_ context.Context, memberID string, since *time.Time) ([]model.AttendanceEvent, error) {
	var result []model.AttendanceEvent
	for i := range m.events {
		e := m.events[i]
		if e.MemberID != memberID {
			continue
		}
		if since != nil && e.CheckInTime.Before(*since) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CheckInTime.Before(result[j].CheckInTime)
	})
	return result, nil
}
