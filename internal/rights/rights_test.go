package rights_test

import (
	"testing"

	"github.com/koassets/rights-backend/internal/rights"
	"github.com/stretchr/testify/assert"
)

func TestResolve_LegacyManagerEqualsReviewer(t *testing.T) {
	legacy := rights.Resolve([]string{"rights-manager"})
	current := rights.Resolve([]string{"rights-reviewer"})

	assert.Equal(t, current, legacy, "rights-manager must behave exactly like rights-reviewer")
	assert.True(t, legacy.CanReview)
	assert.True(t, legacy.CanSelfAssign)
	assert.False(t, legacy.CanAssignToOthers)
	assert.False(t, legacy.CanViewReports)
}

func TestResolve_Aliases(t *testing.T) {
	assert.Equal(t, rights.Resolve([]string{"rights-reviewer"}), rights.Resolve([]string{"rr"}))
	assert.Equal(t, rights.Resolve([]string{"rights-manager"}), rights.Resolve([]string{"rm"}))
}

func TestResolve_SeniorAloneGrantsOnlyAssignToOthers(t *testing.T) {
	caps := rights.Resolve([]string{"senior-rights-reviewer"})

	assert.True(t, caps.CanAssignToOthers)
	assert.False(t, caps.CanReview, "seniority does not imply the base reviewer token")
	assert.False(t, caps.CanSelfAssign)
}

func TestResolve_SeniorPlusReviewer(t *testing.T) {
	caps := rights.Resolve([]string{"senior-rights-reviewer", "rr"})

	assert.True(t, caps.CanAssignToOthers)
	assert.True(t, caps.CanReview)
	assert.True(t, caps.CanSelfAssign)
}

func TestResolve_UnknownTokensIgnored(t *testing.T) {
	caps := rights.Resolve([]string{"chief-vibes-officer", "RIGHTS-REVIEWER", "Rr", ""})

	assert.Equal(t, rights.Capabilities{}, caps, "unknown and wrong-case tokens grant nothing")
}

func TestResolve_EmptyList(t *testing.T) {
	assert.Equal(t, rights.Capabilities{}, rights.Resolve(nil))
	assert.Equal(t, rights.Capabilities{}, rights.Resolve([]string{}))
}

func TestResolve_ReportsAdmin(t *testing.T) {
	caps := rights.Resolve([]string{"reports-admin"})

	assert.True(t, caps.CanViewReports)
	assert.False(t, caps.CanReview)
}

func TestNormalize(t *testing.T) {
	got := rights.Normalize([]string{"rr", "rm", "reports-admin", "banana"})
	assert.Equal(t, []string{"rights-reviewer", "rights-manager", "reports-admin", "banana"}, got)
}
