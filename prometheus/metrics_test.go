package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordTokenIssuedCounts(t *testing.T) {
	before := testutil.ToFloat64(TokensIssuedCounter)

	RecordTokenIssued()
	RecordTokenIssued()

	require.Equal(t, before+2, testutil.ToFloat64(TokensIssuedCounter))
}
