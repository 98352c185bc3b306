package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionMatchesTable(t *testing.T) {
	for _, kind := range Kinds() {
		candidates := append(States(kind), "UNKNOWN", "")
		for _, from := range States(kind) {
			next := map[string]bool{}
			for _, s := range catalog[kind][from] {
				next[s] = true
			}
			for _, to := range candidates {
				want := next[to] || to == from
				assert.Equal(t, want, CanTransition(kind, from, to), "%s: %s -> %s", kind, from, to)
			}
		}
	}
}

func TestCanTransitionUnknownInputs(t *testing.T) {
	assert.False(t, CanTransition(Kind("invoice"), "PENDING", "PENDING"))
	assert.False(t, CanTransition(KindJobApplication, "ARCHIVED", "ARCHIVED"))
	assert.False(t, CanTransition(KindJobApplication, "ARCHIVED", string(ApplicationRejected)))
	// статус договора не существует для заявки кандидата
	assert.False(t, CanTransition(KindJobApplication, string(ContractDraft), string(ContractCanceled)))
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	terminal := map[Kind][]string{
		KindJobApplication: {string(ApplicationAccepted), string(ApplicationRejected)},
		KindServiceRequest: {string(ServiceRequestCompleted), string(ServiceRequestRejected)},
		KindContract: {
			string(ContractTerminated), string(ContractCanceled),
			string(ContractCompleted), string(ContractExpired),
		},
	}
	for kind, states := range terminal {
		for _, from := range states {
			assert.True(t, IsTerminal(kind, from), "%s %s", kind, from)
			assert.Empty(t, Allowed(kind, from))
			for _, to := range States(kind) {
				assert.Equal(t, to == from, CanTransition(kind, from, to), "%s: %s -> %s", kind, from, to)
			}
		}
	}
	assert.False(t, IsTerminal(KindContract, string(ContractPaused)))
	assert.False(t, IsTerminal(KindContract, "UNKNOWN"))
}

func TestJobApplicationPaths(t *testing.T) {
	assert.False(t, ApplicationPending.CanTransitionTo(ApplicationAccepted))

	path := []ApplicationStatus{ApplicationPending, ApplicationInReview, ApplicationInterview, ApplicationAccepted}
	for i := 0; i < len(path)-1; i++ {
		assert.True(t, path[i].CanTransitionTo(path[i+1]), "%s -> %s", path[i], path[i+1])
	}
	for _, from := range []ApplicationStatus{ApplicationPending, ApplicationInReview, ApplicationInterview} {
		assert.True(t, from.CanTransitionTo(ApplicationRejected), from)
	}
}

func TestContractPauseResume(t *testing.T) {
	assert.True(t, ContractActive.CanTransitionTo(ContractPaused))
	assert.True(t, ContractPaused.CanTransitionTo(ContractActive))
	assert.False(t, ContractPaused.CanTransitionTo(ContractCompleted))
	assert.False(t, ContractDraft.CanTransitionTo(ContractActive))
	assert.True(t, ContractCanceled.IsTerminal())
}

func TestAllowedReturnsCopy(t *testing.T) {
	next := Allowed(KindJobApplication, string(ApplicationPending))
	require.Len(t, next, 2)
	next[0] = "MUTATED"
	assert.Equal(t, []string{"IN_REVIEW", "REJECTED"}, Allowed(KindJobApplication, string(ApplicationPending)))
}

func TestParse(t *testing.T) {
	got, err := Parse(KindContract, " pending signature ")
	require.NoError(t, err)
	assert.Equal(t, string(ContractPendingSignature), got)

	got, err = Parse(KindJobApplication, "in-review")
	require.NoError(t, err)
	assert.Equal(t, string(ApplicationInReview), got)

	_, err = Parse(KindJobApplication, "APPROVED")
	assert.Error(t, err)

	_, err = Parse(Kind("invoice"), "PENDING")
	assert.Error(t, err)
}

func TestResolveAction(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		action  string
		want    string
		wantErr bool
	}{
		{name: "approve service request", kind: KindServiceRequest, action: "approved", want: "CONTRACT_GENERATED"},
		{name: "reject service request", kind: KindServiceRequest, action: "REJECTED", want: "REJECTED"},
		{name: "review service request", kind: KindServiceRequest, action: "IN_REVIEW", want: "IN_REVIEW"},
		{name: "full vocabulary still accepted", kind: KindServiceRequest, action: "PLAN_OFFERED", want: "PLAN_OFFERED"},
		{name: "approve is not an application status", kind: KindJobApplication, action: "APPROVED", wantErr: true},
		{name: "unknown action", kind: KindServiceRequest, action: "ESCALATE", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveAction(tt.kind, tt.action)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequiresContract(t *testing.T) {
	assert.True(t, RequiresContract(KindServiceRequest, string(ServiceRequestContractGenerated)))
	assert.False(t, RequiresContract(KindServiceRequest, string(ServiceRequestCompleted)))
	assert.False(t, RequiresContract(KindContract, string(ServiceRequestContractGenerated)))
}

func TestEveryStateHasInitialAndOrder(t *testing.T) {
	for _, kind := range Kinds() {
		assert.Len(t, States(kind), len(catalog[kind]), kind)
		assert.Contains(t, States(kind), Initial(kind))
	}
}
