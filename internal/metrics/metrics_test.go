package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordBooking(t *testing.T) {
	before := testutil.ToFloat64(BookingsTotal.WithLabelValues("created"))
	RecordBooking("created")
	after := testutil.ToFloat64(BookingsTotal.WithLabelValues("created"))
	require.Equal(t, before+1, after)
}

func TestRecordMembershipCreated(t *testing.T) {
	before := testutil.ToFloat64(MembershipsCreatedTotal.WithLabelValues("premium"))
	RecordMembershipCreated("premium")
	after := testutil.ToFloat64(MembershipsCreatedTotal.WithLabelValues("premium"))
	require.Equal(t, before+1, after)
}

func TestRecordScheduleCache(t *testing.T) {
	before := testutil.ToFloat64(ScheduleCacheTotal.WithLabelValues("hit"))
	RecordScheduleCache("hit")
	RecordScheduleCache("miss")
	after := testutil.ToFloat64(ScheduleCacheTotal.WithLabelValues("hit"))
	require.Equal(t, before+1, after)
}
