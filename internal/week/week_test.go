package week_test

import (
	"testing"
	"time"

	"github.com/nimbus-crew/rosterd/backend/internal/week"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestCurrentWeekStart(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"周一当天", date(2026, time.March, 2), date(2026, time.March, 2)},
		{"周三", date(2026, time.March, 4), date(2026, time.March, 2)},
		{"周日归入上一个周一", date(2026, time.March, 8), date(2026, time.March, 2)},
		{"带时分秒也归一化到周一零点", time.Date(2026, time.March, 6, 23, 59, 59, 0, time.Local), date(2026, time.March, 2)},
		{"跨月", date(2026, time.April, 1), date(2026, time.March, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, week.CurrentWeekStart(tt.now))
		})
	}
}

func TestNextWeekStart(t *testing.T) {
	assert.Equal(t, date(2026, time.March, 9), week.NextWeekStart(date(2026, time.March, 4)))
	assert.Equal(t, date(2026, time.March, 9), week.NextWeekStart(date(2026, time.March, 8)))
}

func TestCanRegisterNextWeek(t *testing.T) {
	// 2026-03-02 是周一
	tests := []struct {
		name        string
		now         time.Time
		openWeekday int
		want        bool
	}{
		{"周四还没开放", date(2026, time.March, 5), 5, false},
		{"周五零点开放", date(2026, time.March, 6), 5, true},
		{"周六开放中", date(2026, time.March, 7), 5, true},
		{"周日最后一刻仍开放", time.Date(2026, time.March, 8, 23, 59, 59, 0, time.Local), 5, true},
		{"下周一窗口已关闭", date(2026, time.March, 9), 5, false},
		{"周一开放则全周可登记", date(2026, time.March, 3), 1, true},
		{"非法的开放日", date(2026, time.March, 6), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, week.CanRegisterNextWeek(tt.now, tt.openWeekday))
		})
	}
}

func TestWeekDates(t *testing.T) {
	dates := week.WeekDates(date(2026, time.March, 2))
	require.Len(t, dates, 7)
	assert.Equal(t, "2026-03-02", dates[0])
	assert.Equal(t, "2026-03-08", dates[6])
}

func TestDayOfWeek(t *testing.T) {
	assert.Equal(t, int32(1), week.DayOfWeek(date(2026, time.March, 2)))
	assert.Equal(t, int32(7), week.DayOfWeek(date(2026, time.March, 8)))
}

func TestParseDateRoundTrip(t *testing.T) {
	d, err := week.ParseDate("2026-03-02", time.Local)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", week.FormatDate(d))

	_, err = week.ParseDate("2026/03/02", time.Local)
	assert.Error(t, err)
}
