package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()

	require.NoError(t, reg.Validate())
	assert.Equal(t, []string{
		"validate-loan-application",
		"check-loan-eligibility",
		"compute-emi",
		"compute-strength-score",
		"compare-bank-offers",
		"record-loan-assessment",
		"notify-eligibility-result",
	}, reg.TaskTypes())

	activity, ok := reg.Find("compute-emi")
	require.True(t, ok)
	assert.Equal(t, "loan.emi.compute", activity.ID)
	assert.Contains(t, activity.ErrorCodes, "INVALID_EMI_INPUT")

	_, ok = reg.Find("send-email")
	assert.False(t, ok)
}

func TestRegistry_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "activity-registry.json")

	require.NoError(t, DefaultRegistry().Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Activities, 7)
	assert.NoError(t, loaded.Validate())
}

func TestRegistry_AddAndUpdate(t *testing.T) {
	reg := &ActivityRegistry{Version: "1.0.0"}

	require.NoError(t, reg.Add(Activity{
		ID:          "loan.offers.refresh",
		DisplayName: "Refresh Offers",
		Category:    "catalog",
		TaskType:    "refresh-bank-offers",
	}))
	assert.Error(t, reg.Add(Activity{ID: "loan.offers.refresh"}))

	require.NoError(t, reg.Update("loan.offers.refresh", "retries", "3"))
	require.NoError(t, reg.Update("loan.offers.refresh", "timeout", "30s"))
	assert.Equal(t, 3, reg.Activities[0].Retries)
	assert.Equal(t, "30s", reg.Activities[0].Timeout)

	assert.Error(t, reg.Update("loan.offers.refresh", "retries", "many"))
	assert.Error(t, reg.Update("loan.offers.refresh", "timeout", "soon"))
	assert.Error(t, reg.Update("loan.offers.refresh", "owner", "ops"))
	assert.Error(t, reg.Update("loan.missing.activity", "status", "completed"))
}

func TestRegistry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		reg     ActivityRegistry
		wantErr string
	}{
		{name: "empty", reg: ActivityRegistry{}, wantErr: "no activities"},
		{
			name: "duplicate task type",
			reg: ActivityRegistry{Activities: []Activity{
				{ID: "loan.emi.compute", DisplayName: "A", Category: "c", TaskType: "compute-emi"},
				{ID: "loan.emi.quote", DisplayName: "B", Category: "c", TaskType: "compute-emi"},
			}},
			wantErr: "duplicate task type",
		},
		{
			name: "missing category",
			reg: ActivityRegistry{Activities: []Activity{
				{ID: "loan.emi.compute", DisplayName: "A", TaskType: "compute-emi"},
			}},
			wantErr: "Category",
		},
		{
			name: "bad timeout",
			reg: ActivityRegistry{Activities: []Activity{
				{ID: "loan.emi.compute", DisplayName: "A", Category: "c", TaskType: "compute-emi", Timeout: "ten"},
			}},
			wantErr: "invalid timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, tt.reg.Validate(), tt.wantErr)
		})
	}
}
