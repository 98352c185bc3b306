package workflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/pricing"
	"staffdesk/internal/app/status"
	"staffdesk/internal/app/workflow"
	"staffdesk/internal/app/workflow/mocks"
)

func id(v uint) *uint { return &v }
func money(v float64) *float64 { return &v }

// newRepo возвращает мок, у которого Atomic просто вызывает fn с самим моком.
// Любой неожиданный Save/CreateContract валит тест.
func newRepo(t *testing.T) *mocks.MockRepository {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().Atomic(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(workflow.Repository) error) error {
			return fn(repo)
		}).AnyTimes()
	return repo
}

func TestTransitionRejectsSkippingStates(t *testing.T) {
	repo := newRepo(t)
	app := &ds.JobApplication{ID: 1, Status: status.ApplicationPending}
	repo.EXPECT().GetByID(gomock.Any(), status.KindJobApplication, uint(1)).Return(app, nil)

	o := workflow.NewOrchestrator(repo)
	_, err := o.Transition(context.Background(), status.KindJobApplication, 1, "ACCEPTED")

	var illegal *workflow.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, "PENDING", illegal.From)
	assert.Equal(t, "ACCEPTED", illegal.To)
	assert.Equal(t, []string{"IN_REVIEW", "REJECTED"}, illegal.Allowed)
	assert.Contains(t, err.Error(), "cannot move job_application from PENDING to ACCEPTED directly")
	assert.True(t, workflow.IsValidation(err))
	assert.Equal(t, status.ApplicationPending, app.Status)
}

func TestTransitionHappyPath(t *testing.T) {
	repo := newRepo(t)
	app := &ds.JobApplication{ID: 5, Status: status.ApplicationPending}
	repo.EXPECT().GetByID(gomock.Any(), status.KindJobApplication, uint(5)).Return(app, nil).Times(3)
	repo.EXPECT().Save(gomock.Any(), app).Return(nil).Times(3)

	var history []*ds.StatusChange
	repo.EXPECT().RecordStatusChange(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, c *ds.StatusChange) error {
			history = append(history, c)
			return nil
		}).Times(3)

	o := workflow.NewOrchestrator(repo)
	ctx := workflow.WithRequestID(context.Background(), "req-1")
	for _, next := range []string{"IN_REVIEW", "INTERVIEW", "ACCEPTED"} {
		updated, err := o.Transition(ctx, status.KindJobApplication, 5, next)
		require.NoError(t, err, next)
		assert.Equal(t, next, updated.GetStatus())
	}

	require.Len(t, history, 3)
	assert.Equal(t, "PENDING", history[0].FromStatus)
	assert.Equal(t, "IN_REVIEW", history[0].ToStatus)
	assert.Equal(t, "INTERVIEW", history[2].FromStatus)
	assert.Equal(t, "ACCEPTED", history[2].ToStatus)
	assert.Equal(t, "req-1", history[2].RequestID)
	assert.Equal(t, "job_application", history[2].EntityKind)
}

func TestTransitionRejectFromAnyOpenState(t *testing.T) {
	for _, from := range []status.ApplicationStatus{status.ApplicationPending, status.ApplicationInReview, status.ApplicationInterview} {
		t.Run(string(from), func(t *testing.T) {
			repo := newRepo(t)
			app := &ds.JobApplication{ID: 2, Status: from}
			repo.EXPECT().GetByID(gomock.Any(), status.KindJobApplication, uint(2)).Return(app, nil)
			repo.EXPECT().Save(gomock.Any(), app).Return(nil)
			repo.EXPECT().RecordStatusChange(gomock.Any(), gomock.Any()).Return(nil)

			updated, err := workflow.NewOrchestrator(repo).Transition(context.Background(), status.KindJobApplication, 2, "rejected")
			require.NoError(t, err)
			assert.Equal(t, "REJECTED", updated.GetStatus())
		})
	}
}

func TestTransitionSameStatusIsNoop(t *testing.T) {
	repo := newRepo(t)
	c := &ds.Contract{ID: 3, Status: status.ContractActive}
	repo.EXPECT().GetByID(gomock.Any(), status.KindContract, uint(3)).Return(c, nil)

	updated, err := workflow.NewOrchestrator(repo).Transition(context.Background(), status.KindContract, 3, "ACTIVE")
	require.NoError(t, err)
	assert.Same(t, c, updated)
}

func TestTransitionInputErrors(t *testing.T) {
	repo := newRepo(t)
	o := workflow.NewOrchestrator(repo)

	_, err := o.Transition(context.Background(), status.Kind("invoice"), 1, "PAID")
	assert.ErrorIs(t, err, workflow.ErrUnknownKind)

	_, err = o.Transition(context.Background(), status.KindContract, 1, "SIGNED")
	assert.ErrorIs(t, err, workflow.ErrUnknownStatus)
	assert.True(t, workflow.IsValidation(err))
}

func TestTransitionApprovedNeedsContractDraft(t *testing.T) {
	repo := newRepo(t)
	sr := &ds.ServiceRequest{ID: 1, Status: status.ServiceRequestPlanOffered}
	repo.EXPECT().GetByID(gomock.Any(), status.KindServiceRequest, uint(1)).Return(sr, nil)

	// одобрение без черновика договора невозможно
	_, err := workflow.NewOrchestrator(repo).Transition(context.Background(), status.KindServiceRequest, 1, "APPROVED")
	var incomplete *workflow.IncompleteContractError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"contract_draft"}, incomplete.Missing)
	assert.Equal(t, status.ServiceRequestPlanOffered, sr.Status)
}

func TestTransitionApprovedFromPendingIsIllegal(t *testing.T) {
	repo := newRepo(t)
	sr := &ds.ServiceRequest{ID: 2, Status: status.ServiceRequestPending}
	repo.EXPECT().GetByID(gomock.Any(), status.KindServiceRequest, uint(2)).Return(sr, nil)

	_, err := workflow.NewOrchestrator(repo).Transition(context.Background(), status.KindServiceRequest, 2, "APPROVED")
	var illegal *workflow.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, "PENDING", illegal.From)
	assert.Equal(t, "CONTRACT_GENERATED", illegal.To)
	var incomplete *workflow.IncompleteContractError
	assert.False(t, errors.As(err, &incomplete))
}

func TestTransitionNotFound(t *testing.T) {
	repo := newRepo(t)
	repo.EXPECT().GetByID(gomock.Any(), status.KindServiceRequest, uint(9)).Return(nil, workflow.ErrNotFound)

	_, err := workflow.NewOrchestrator(repo).Transition(context.Background(), status.KindServiceRequest, 9, "IN_REVIEW")
	assert.ErrorIs(t, err, workflow.ErrNotFound)
	var re *workflow.RepositoryError
	assert.False(t, errors.As(err, &re))
}

func TestTransitionSaveFailure(t *testing.T) {
	repo := newRepo(t)
	dbErr := errors.New("connection reset")
	sr := &ds.ServiceRequest{ID: 4, Status: status.ServiceRequestPending}
	repo.EXPECT().GetByID(gomock.Any(), status.KindServiceRequest, uint(4)).Return(sr, nil)
	repo.EXPECT().Save(gomock.Any(), sr).Return(dbErr)

	_, err := workflow.NewOrchestrator(repo).Transition(context.Background(), status.KindServiceRequest, 4, "IN_REVIEW")
	var re *workflow.RepositoryError
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, dbErr)
	assert.False(t, re.OrphanRisk())
	assert.False(t, workflow.IsValidation(err))
}

func corporateRequest() *ds.ServiceRequest {
	return &ds.ServiceRequest{ID: 10, RequesterType: pricing.ClientCorporate, Status: status.ServiceRequestPlanOffered}
}

func corporateDraft() workflow.ContractDraft {
	return workflow.ContractDraft{
		ClientType:         pricing.ClientCorporate,
		CompanyClientID:    id(77),
		PackageID:          id(3),
		ProfessionalIDs:    []uint{11, 12},
		DiscountPercentage: 10,
		PaymentTerms:       "monthly",
		Location:           ds.Location{City: "Fortaleza", District: "Aldeota", Street: "Rua A, 10"},
	}
}

func TestApproveServiceRequestCorporate(t *testing.T) {
	repo := newRepo(t)
	sr := corporateRequest()
	pkg := &ds.Package{ID: 3, Employees: 3, Hours: 160, Equivalent: 500, Cost: 100000}

	repo.EXPECT().GetByID(gomock.Any(), status.KindServiceRequest, uint(10)).Return(sr, nil)
	repo.EXPECT().GetPackage(gomock.Any(), uint(3)).Return(pkg, nil)
	gomock.InOrder(
		repo.EXPECT().CreateContract(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, c *ds.Contract) error {
				// статус запроса еще не тронут
				assert.Equal(t, status.ServiceRequestPlanOffered, sr.Status)
				c.ID = 7
				return nil
			}),
		repo.EXPECT().RecordStatusChange(gomock.Any(), gomock.Any()).Return(nil),
		repo.EXPECT().Save(gomock.Any(), sr).Return(nil),
		repo.EXPECT().RecordStatusChange(gomock.Any(), gomock.Any()).Return(nil),
	)

	approval, err := workflow.NewOrchestrator(repo).ApproveServiceRequest(context.Background(), 10, corporateDraft())
	require.NoError(t, err)

	c := approval.Contract
	assert.Equal(t, uint(7), c.ID)
	assert.Equal(t, status.ContractDraft, c.Status)
	assert.Equal(t, 100000.0, c.AgreedValue)
	assert.Equal(t, 90000.0, c.FinalValue)
	assert.Equal(t, 10.0, c.DiscountPercentage)
	assert.Equal(t, []uint{11, 12}, c.ProfessionalIDs())
	assert.Equal(t, uint(10), *c.ServiceRequestID)
	assert.Regexp(t, `^CT-\d{8}-[0-9a-f]{8}$`, c.Number)
	assert.Nil(t, c.ProfessionalID)

	assert.Equal(t, status.ServiceRequestContractGenerated, approval.ServiceRequest.Status)
	assert.Equal(t, uint(7), *approval.ServiceRequest.ContractID)
}

func TestApproveServiceRequestIncompleteIndividualDraft(t *testing.T) {
	repo := newRepo(t)
	sr := &ds.ServiceRequest{ID: 20, RequesterType: pricing.ClientIndividual, Status: status.ServiceRequestPlanOffered}
	repo.EXPECT().GetByID(gomock.Any(), status.KindServiceRequest, uint(20)).Return(sr, nil)

	draft := workflow.ContractDraft{
		ClientType:         pricing.ClientIndividual,
		IndividualClientID: id(5),
		DesiredPositionID:  id(2),
		NegotiatedValue:    money(3000),
	}
	_, err := workflow.NewOrchestrator(repo).ApproveServiceRequest(context.Background(), 20, draft)

	var incomplete *workflow.IncompleteContractError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"professional_id"}, incomplete.Missing)
	assert.Equal(t, status.ServiceRequestPlanOffered, sr.Status)
	assert.Nil(t, sr.ContractID)
}

func TestApproveServiceRequestIllegalSource(t *testing.T) {
	for _, from := range []status.ServiceRequestStatus{
		status.ServiceRequestPending,
		status.ServiceRequestInReview,
		status.ServiceRequestContractGenerated,
		status.ServiceRequestRejected,
	} {
		t.Run(string(from), func(t *testing.T) {
			repo := newRepo(t)
			sr := corporateRequest()
			sr.Status = from
			repo.EXPECT().GetByID(gomock.Any(), status.KindServiceRequest, uint(10)).Return(sr, nil)

			_, err := workflow.NewOrchestrator(repo).ApproveServiceRequest(context.Background(), 10, corporateDraft())
			var illegal *workflow.IllegalTransitionError
			require.ErrorAs(t, err, &illegal)
			assert.Equal(t, "CONTRACT_GENERATED", illegal.To)
			assert.Equal(t, from, sr.Status)
		})
	}
}

func TestApproveServiceRequestUnknownPackage(t *testing.T) {
	repo := newRepo(t)
	repo.EXPECT().GetByID(gomock.Any(), status.KindServiceRequest, uint(10)).Return(corporateRequest(), nil)
	repo.EXPECT().GetPackage(gomock.Any(), uint(3)).Return(nil, workflow.ErrNotFound)

	_, err := workflow.NewOrchestrator(repo).ApproveServiceRequest(context.Background(), 10, corporateDraft())
	assert.ErrorIs(t, err, pricing.ErrMissingPackage)
	assert.True(t, workflow.IsValidation(err))
}

func TestApproveServiceRequestClientTypeMismatch(t *testing.T) {
	repo := newRepo(t)
	sr := corporateRequest()
	sr.RequesterType = pricing.ClientIndividual
	repo.EXPECT().GetByID(gomock.Any(), status.KindServiceRequest, uint(10)).Return(sr, nil)

	_, err := workflow.NewOrchestrator(repo).ApproveServiceRequest(context.Background(), 10, corporateDraft())
	var incomplete *workflow.IncompleteContractError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"client_type"}, incomplete.Conflicting)
}

func TestApproveServiceRequestDefaultsClientType(t *testing.T) {
	repo := newRepo(t)
	sr := &ds.ServiceRequest{ID: 21, RequesterType: pricing.ClientIndividual, Status: status.ServiceRequestPlanOffered}
	repo.EXPECT().GetByID(gomock.Any(), status.KindServiceRequest, uint(21)).Return(sr, nil)
	repo.EXPECT().CreateContract(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().Save(gomock.Any(), sr).Return(nil)
	repo.EXPECT().RecordStatusChange(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	draft := workflow.ContractDraft{
		IndividualClientID: id(5),
		ProfessionalID:     id(8),
		DesiredPositionID:  id(2),
		NegotiatedValue:    money(4000),
		DiscountPercentage: 5,
	}
	approval, err := workflow.NewOrchestrator(repo).ApproveServiceRequest(context.Background(), 21, draft)
	require.NoError(t, err)
	assert.Equal(t, pricing.ClientIndividual, approval.Contract.ClientType)
	assert.Equal(t, 3800.0, approval.Contract.FinalValue)
	assert.Equal(t, []uint{8}, approval.Contract.ProfessionalIDs())
}

func TestApproveServiceRequestSaveFailureReportsContract(t *testing.T) {
	repo := newRepo(t)
	sr := corporateRequest()
	repo.EXPECT().GetByID(gomock.Any(), status.KindServiceRequest, uint(10)).Return(sr, nil)
	repo.EXPECT().GetPackage(gomock.Any(), uint(3)).Return(&ds.Package{ID: 3, Cost: 100000}, nil)
	repo.EXPECT().CreateContract(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, c *ds.Contract) error {
			c.ID = 42
			return nil
		})
	repo.EXPECT().RecordStatusChange(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().Save(gomock.Any(), sr).Return(errors.New("deadlock detected"))

	_, err := workflow.NewOrchestrator(repo).ApproveServiceRequest(context.Background(), 10, corporateDraft())
	var re *workflow.RepositoryError
	require.ErrorAs(t, err, &re)
	assert.True(t, re.OrphanRisk())
	assert.Equal(t, uint(42), *re.ContractID)
	assert.Equal(t, "save service_request", re.Op)
	assert.False(t, workflow.IsValidation(err))
}

func TestCreateContractDirect(t *testing.T) {
	repo := newRepo(t)
	repo.EXPECT().GetPackage(gomock.Any(), uint(3)).Return(&ds.Package{ID: 3, Employees: 1, Hours: 10, Equivalent: 100, Cost: 2500}, nil)
	repo.EXPECT().CreateContract(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().RecordStatusChange(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, c *ds.StatusChange) error {
			assert.Equal(t, "", c.FromStatus)
			assert.Equal(t, "DRAFT", c.ToStatus)
			return nil
		})

	draft := corporateDraft()
	draft.DiscountPercentage = 0
	// согласованная сумма для компании игнорируется
	draft.NegotiatedValue = money(1)
	c, err := workflow.NewOrchestrator(repo).CreateContract(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, c.AgreedValue)
	assert.Equal(t, 2500.0, c.FinalValue)
	assert.Nil(t, c.ServiceRequestID)
}

func TestCreateContractInvalidDiscount(t *testing.T) {
	repo := newRepo(t)
	repo.EXPECT().GetPackage(gomock.Any(), uint(3)).Return(&ds.Package{ID: 3, Cost: 2500}, nil)

	draft := corporateDraft()
	draft.DiscountPercentage = 120
	_, err := workflow.NewOrchestrator(repo).CreateContract(context.Background(), draft)
	var discountErr *pricing.InvalidDiscountError
	assert.ErrorAs(t, err, &discountErr)
}

func TestRepriceContract(t *testing.T) {
	repo := newRepo(t)
	c := &ds.Contract{
		ID: 8, ClientType: pricing.ClientIndividual, Status: status.ContractDraft,
		AgreedValue: 5000, DiscountPercentage: 0, FinalValue: 5000,
	}
	repo.EXPECT().GetByID(gomock.Any(), status.KindContract, uint(8)).Return(c, nil)
	repo.EXPECT().Save(gomock.Any(), c).Return(nil)

	updated, err := workflow.NewOrchestrator(repo).RepriceContract(context.Background(), 8, workflow.PricingEdit{DiscountPercentage: money(20)})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, updated.AgreedValue)
	assert.Equal(t, 4000.0, updated.FinalValue)
	assert.Equal(t, 20.0, updated.DiscountPercentage)
}

func TestRepriceCorporateContractChangesPackage(t *testing.T) {
	repo := newRepo(t)
	c := &ds.Contract{
		ID: 9, ClientType: pricing.ClientCorporate, Status: status.ContractDraft, PackageID: id(3),
		AgreedValue: 100000, DiscountPercentage: 10, FinalValue: 90000,
	}
	repo.EXPECT().GetByID(gomock.Any(), status.KindContract, uint(9)).Return(c, nil)
	repo.EXPECT().GetPackage(gomock.Any(), uint(4)).Return(&ds.Package{ID: 4, Cost: 200000}, nil)
	repo.EXPECT().Save(gomock.Any(), c).Return(nil)

	updated, err := workflow.NewOrchestrator(repo).RepriceContract(context.Background(), 9, workflow.PricingEdit{PackageID: id(4)})
	require.NoError(t, err)
	assert.Equal(t, uint(4), *updated.PackageID)
	assert.Equal(t, 200000.0, updated.AgreedValue)
	assert.Equal(t, 180000.0, updated.FinalValue)
}

func TestRepriceCorporateDiscountKeepsStoredPrice(t *testing.T) {
	repo := newRepo(t)
	c := &ds.Contract{
		ID: 9, ClientType: pricing.ClientCorporate, Status: status.ContractDraft, PackageID: id(3),
		AgreedValue: 100000, DiscountPercentage: 0, FinalValue: 100000,
	}
	repo.EXPECT().GetByID(gomock.Any(), status.KindContract, uint(9)).Return(c, nil)
	// пакет 3 уже удален из справочника
	repo.EXPECT().GetPackage(gomock.Any(), uint(3)).Return(nil, workflow.ErrNotFound).AnyTimes()
	repo.EXPECT().Save(gomock.Any(), c).Return(nil)

	updated, err := workflow.NewOrchestrator(repo).RepriceContract(context.Background(), 9, workflow.PricingEdit{DiscountPercentage: money(10)})
	require.NoError(t, err)
	assert.Equal(t, uint(3), *updated.PackageID)
	assert.Equal(t, 100000.0, updated.AgreedValue)
	assert.Equal(t, 10.0, updated.DiscountPercentage)
	assert.Equal(t, 90000.0, updated.FinalValue)
}

func TestRepriceContractRoundsDiscount(t *testing.T) {
	repo := newRepo(t)
	c := &ds.Contract{
		ID: 8, ClientType: pricing.ClientIndividual, Status: status.ContractDraft,
		AgreedValue: 100000, FinalValue: 100000,
	}
	repo.EXPECT().GetByID(gomock.Any(), status.KindContract, uint(8)).Return(c, nil)
	repo.EXPECT().Save(gomock.Any(), c).Return(nil)

	updated, err := workflow.NewOrchestrator(repo).RepriceContract(context.Background(), 8, workflow.PricingEdit{DiscountPercentage: money(33.333)})
	require.NoError(t, err)
	assert.Equal(t, 33.33, updated.DiscountPercentage)
	assert.Equal(t, 66670.0, updated.FinalValue)
}

func TestRepriceContractLockedOutsideDraft(t *testing.T) {
	repo := newRepo(t)
	c := &ds.Contract{ID: 8, ClientType: pricing.ClientIndividual, Status: status.ContractPendingSignature, AgreedValue: 5000, FinalValue: 5000}
	repo.EXPECT().GetByID(gomock.Any(), status.KindContract, uint(8)).Return(c, nil)

	_, err := workflow.NewOrchestrator(repo).RepriceContract(context.Background(), 8, workflow.PricingEdit{DiscountPercentage: money(20)})
	assert.ErrorIs(t, err, workflow.ErrContractLocked)
	assert.Equal(t, 5000.0, c.FinalValue)
}
