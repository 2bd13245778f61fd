package handler_test

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/bluetrail/internal/handler"
)

func TestCreateChallenge_CSVExport(t *testing.T) {
	stamps := fullWalk()[:3] // covers S1 and S2; S3 and S4 stay default

	req := httptest.NewRequest(http.MethodPost, "/challenges?format=csv", jsonBody(t, handler.ChallengeRequest{
		Stamps:           stamps,
		BookletWhichBlue: "OKT",
	}))
	rec := httptest.NewRecorder()
	realHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "OKT-path.csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5) // header + 4 segments

	assert.Equal(t, "order", records[0][0])
	assert.Equal(t, []string{"1", "S1", "M1", "OKTPH_01", "OKTPH_02", "3.000", "digital", "forward"}, records[1][:8])
	assert.NotEmpty(t, records[1][8])
	assert.Equal(t, "default", records[3][6])
	assert.Empty(t, records[3][8], "default edges carry no stamp time")
}
