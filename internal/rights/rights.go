// Package rights maps configured permission tokens to the capability set
// used by the review workflow.
package rights

// Permission token vocabulary. Tokens are matched case-sensitively;
// anything outside this list is ignored.
const (
	TokenReviewer       = "rights-reviewer"        // review and self-assign rights requests
	TokenSeniorReviewer = "senior-rights-reviewer" // assign requests to other reviewers
	TokenManager        = "rights-manager"         // legacy name for rights-reviewer, kept for old rosters
	TokenReportsAdmin   = "reports-admin"          // access terminal-state reporting

	// Short aliases accepted in roster configuration.
	AliasReviewer = "rr"
	AliasManager  = "rm"
)

// Capabilities is the per-user capability set derived from permission
// tokens. It is computed once per authenticated request, never persisted.
type Capabilities struct {
	CanReview         bool
	CanSelfAssign     bool
	CanAssignToOthers bool
	CanViewReports    bool
}

// Normalize expands short aliases to their full token names. Unknown
// tokens pass through untouched so Resolve can ignore them.
func Normalize(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		switch t {
		case AliasReviewer:
			out = append(out, TokenReviewer)
		case AliasManager:
			out = append(out, TokenManager)
		default:
			out = append(out, t)
		}
	}
	return out
}

// Resolve computes the capability set for a permission token list.
//
// rights-manager is fully equivalent to rights-reviewer: no authorization
// decision may ever depend on which of the two a user holds. Seniority is
// additive; senior-rights-reviewer grants assign-to-others on its own,
// without implying the base reviewer token.
func Resolve(tokens []string) Capabilities {
	var caps Capabilities
	for _, t := range Normalize(tokens) {
		switch t {
		case TokenReviewer, TokenManager:
			caps.CanReview = true
			caps.CanSelfAssign = true
		case TokenSeniorReviewer:
			caps.CanAssignToOthers = true
		case TokenReportsAdmin:
			caps.CanViewReports = true
		}
	}
	return caps
}
