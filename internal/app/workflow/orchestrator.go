package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/pricing"
	"staffdesk/internal/app/status"
)

const initialContractStatus = string(status.ContractDraft)

// Orchestrator проводит сущности по таблицам переходов и создает договоры.
type Orchestrator struct {
	repo Repository
	now  func() time.Time
}

func NewOrchestrator(repo Repository) *Orchestrator {
	return &Orchestrator{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Approval - результат одобрения запроса клиента.
type Approval struct {
	ServiceRequest *ds.ServiceRequest `json:"service_request"`
	Contract       *ds.Contract       `json:"contract"`
}

// PricingEdit - изменение денежных условий договора в статусе DRAFT.
// nil означает "оставить как есть".
type PricingEdit struct {
	PackageID          *uint
	NegotiatedValue    *float64
	DiscountPercentage *float64
}

// ValidateTransition - чистая проверка допустимости перехода.
func (o *Orchestrator) ValidateTransition(kind status.Kind, from, to string) bool {
	return status.CanTransition(kind, from, to)
}

// Transition переводит сущность в запрошенный статус. requested может быть
// статусом каталога или действием интерфейса (APPROVED, REJECTED, IN_REVIEW).
// Допустимость проверяется по только что прочитанному состоянию внутри транзакции.
func (o *Orchestrator) Transition(ctx context.Context, kind status.Kind, id uint, requested string) (ds.Workflow, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	to, err := status.ResolveAction(kind, requested)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownStatus, err)
	}

	log := logrus.WithFields(logrus.Fields{
		"request_id": RequestIDFromContext(ctx),
		"kind":       kind,
		"id":         id,
		"to":         to,
	})

	var updated ds.Workflow
	err = o.repo.Atomic(ctx, func(tx Repository) error {
		entity, err := tx.GetByID(ctx, kind, id)
		if err != nil {
			return repoErr("get "+string(kind), err)
		}

		from := entity.GetStatus()
		if !status.CanTransition(kind, from, to) {
			return &IllegalTransitionError{Kind: kind, From: from, To: to, Allowed: status.Allowed(kind, from)}
		}
		// договор создается только через ApproveServiceRequest
		if status.RequiresContract(kind, to) {
			return &IncompleteContractError{Missing: []string{"contract_draft"}}
		}
		if from == to {
			updated = entity
			return nil
		}

		entity.SetStatus(to)
		if err := tx.Save(ctx, entity); err != nil {
			return repoErr("save "+string(kind), err)
		}
		if err := tx.RecordStatusChange(ctx, o.change(ctx, kind, id, from, to)); err != nil {
			return repoErr("record status change", err)
		}

		log.WithField("from", from).Info("status changed")
		updated = entity
		return nil
	})
	if err != nil {
		o.logFailure(log, err)
		return nil, repoErr("transaction", err)
	}
	return updated, nil
}

// ApproveServiceRequest создает договор из черновика и переводит запрос в
// CONTRACT_GENERATED. Все или ничего: при любой ошибке проверки статус запроса
// не меняется и договор не создается.
func (o *Orchestrator) ApproveServiceRequest(ctx context.Context, serviceRequestID uint, draft ContractDraft) (*Approval, error) {
	target := string(status.ContractGeneratingTarget)
	log := logrus.WithFields(logrus.Fields{
		"request_id":         RequestIDFromContext(ctx),
		"service_request_id": serviceRequestID,
	})

	var result *Approval
	err := o.repo.Atomic(ctx, func(tx Repository) error {
		entity, err := tx.GetByID(ctx, status.KindServiceRequest, serviceRequestID)
		if err != nil {
			return repoErr("get service_request", err)
		}
		request, ok := entity.(*ds.ServiceRequest)
		if !ok {
			return &RepositoryError{Op: "get service_request", Err: fmt.Errorf("unexpected entity type %T", entity)}
		}

		// 1. Переход. Повторное одобрение не допускается: оно создало бы второй договор.
		from := request.GetStatus()
		if from == target || !status.CanTransition(status.KindServiceRequest, from, target) {
			return &IllegalTransitionError{
				Kind:    status.KindServiceRequest,
				From:    from,
				To:      target,
				Allowed: status.Allowed(status.KindServiceRequest, from),
			}
		}

		// 2. Связи черновика
		if draft.ClientType == "" {
			draft.ClientType = request.RequesterType
		}
		if err := ValidateDraft(draft); err != nil {
			return err
		}
		if draft.ClientType != request.RequesterType {
			return &IncompleteContractError{ClientType: draft.ClientType, Conflicting: []string{"client_type"}}
		}

		// 3. Цена
		contract, err := o.buildContract(ctx, tx, draft)
		if err != nil {
			return err
		}
		contract.ServiceRequestID = &request.ID

		// 4. Договор
		if err := tx.CreateContract(ctx, contract); err != nil {
			return repoErr("create contract", err)
		}
		if err := tx.RecordStatusChange(ctx, o.change(ctx, status.KindContract, contract.ID, "", contract.GetStatus())); err != nil {
			return &RepositoryError{Op: "record contract creation", ContractID: &contract.ID, Err: err}
		}

		// 5. Только после записи договора - статус запроса
		request.SetStatus(target)
		request.ContractID = &contract.ID
		if err := tx.Save(ctx, request); err != nil {
			return &RepositoryError{Op: "save service_request", ContractID: &contract.ID, Err: err}
		}
		if err := tx.RecordStatusChange(ctx, o.change(ctx, status.KindServiceRequest, request.ID, from, target)); err != nil {
			return &RepositoryError{Op: "record status change", ContractID: &contract.ID, Err: err}
		}

		log.WithFields(logrus.Fields{
			"from":        from,
			"contract_id": contract.ID,
			"final_value": contract.FinalValue,
		}).Info("service request approved")
		result = &Approval{ServiceRequest: request, Contract: contract}
		return nil
	})
	if err != nil {
		o.logFailure(log, err)
		return nil, repoErr("transaction", err)
	}
	return result, nil
}

// CreateContract создает договор напрямую, без запроса клиента.
func (o *Orchestrator) CreateContract(ctx context.Context, draft ContractDraft) (*ds.Contract, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}
	log := logrus.WithField("request_id", RequestIDFromContext(ctx))

	var created *ds.Contract
	err := o.repo.Atomic(ctx, func(tx Repository) error {
		contract, err := o.buildContract(ctx, tx, draft)
		if err != nil {
			return err
		}
		if err := tx.CreateContract(ctx, contract); err != nil {
			return repoErr("create contract", err)
		}
		if err := tx.RecordStatusChange(ctx, o.change(ctx, status.KindContract, contract.ID, "", contract.GetStatus())); err != nil {
			return &RepositoryError{Op: "record contract creation", ContractID: &contract.ID, Err: err}
		}
		log.WithField("contract_id", contract.ID).Info("contract created")
		created = contract
		return nil
	})
	if err != nil {
		o.logFailure(log, err)
		return nil, repoErr("transaction", err)
	}
	return created, nil
}

// RepriceContract пересчитывает agreed/final value после изменения пакета,
// согласованной суммы или скидки. Разрешено только для договора в DRAFT.
func (o *Orchestrator) RepriceContract(ctx context.Context, contractID uint, edit PricingEdit) (*ds.Contract, error) {
	log := logrus.WithFields(logrus.Fields{
		"request_id":  RequestIDFromContext(ctx),
		"contract_id": contractID,
	})

	var updated *ds.Contract
	err := o.repo.Atomic(ctx, func(tx Repository) error {
		entity, err := tx.GetByID(ctx, status.KindContract, contractID)
		if err != nil {
			return repoErr("get contract", err)
		}
		contract, ok := entity.(*ds.Contract)
		if !ok {
			return &RepositoryError{Op: "get contract", Err: fmt.Errorf("unexpected entity type %T", entity)}
		}
		if contract.GetStatus() != initialContractStatus {
			return ErrContractLocked
		}

		discount := contract.DiscountPercentage
		if edit.DiscountPercentage != nil {
			discount = *edit.DiscountPercentage
		}
		in := pricing.Input{DiscountPercentage: discount}

		var p pricing.Pricing
		switch contract.ClientType {
		case pricing.ClientCorporate:
			if edit.NegotiatedValue != nil {
				return &IncompleteContractError{ClientType: contract.ClientType, Conflicting: []string{"negotiated_value"}}
			}
			if edit.PackageID == nil {
				// пакет не меняется: цена остается сохраненной, даже если пакет уже удален из справочника
				p, err = pricing.ApplyDiscount(contract.AgreedValue, discount)
				break
			}
			if in.Package, err = o.resolvePackage(ctx, tx, edit.PackageID); err != nil {
				return err
			}
			contract.PackageID = edit.PackageID
			p, err = pricing.ComputeContractPricing(contract.ClientType, in)
		default:
			if edit.PackageID != nil {
				return &IncompleteContractError{ClientType: contract.ClientType, Conflicting: []string{"package_id"}}
			}
			negotiated := contract.AgreedValue
			if edit.NegotiatedValue != nil {
				negotiated = *edit.NegotiatedValue
			}
			in.NegotiatedValue = &negotiated
			p, err = pricing.ComputeContractPricing(contract.ClientType, in)
		}
		if err != nil {
			return err
		}
		contract.ApplyPricing(p)
		if err := tx.Save(ctx, contract); err != nil {
			return repoErr("save contract", err)
		}

		log.WithFields(logrus.Fields{
			"agreed_value": contract.AgreedValue,
			"final_value":  contract.FinalValue,
		}).Info("contract repriced")
		updated = contract
		return nil
	})
	if err != nil {
		o.logFailure(log, err)
		return nil, repoErr("transaction", err)
	}
	return updated, nil
}

// buildContract считает цену черновика и собирает договор в DRAFT.
func (o *Orchestrator) buildContract(ctx context.Context, tx Repository, draft ContractDraft) (*ds.Contract, error) {
	in := pricing.Input{
		NegotiatedValue:    draft.NegotiatedValue,
		DiscountPercentage: draft.DiscountPercentage,
	}
	if draft.ClientType == pricing.ClientCorporate {
		terms, err := o.resolvePackage(ctx, tx, draft.PackageID)
		if err != nil {
			return nil, err
		}
		in.Package = terms
		// для компаний сумма берется только из пакета
		in.NegotiatedValue = nil
	}

	p, err := pricing.ComputeContractPricing(draft.ClientType, in)
	if err != nil {
		return nil, err
	}
	return newContract(draft, p, contractNumber(o.now())), nil
}

func (o *Orchestrator) resolvePackage(ctx context.Context, tx Repository, id *uint) (*pricing.PackageTerms, error) {
	if !set(id) {
		return nil, pricing.ErrMissingPackage
	}
	pkg, err := tx.GetPackage(ctx, *id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("package %d: %w", *id, pricing.ErrMissingPackage)
	}
	if err != nil {
		return nil, repoErr("get package", err)
	}
	terms := pkg.Terms()
	return &terms, nil
}

func (o *Orchestrator) change(ctx context.Context, kind status.Kind, id uint, from, to string) *ds.StatusChange {
	return &ds.StatusChange{
		EntityKind: string(kind),
		EntityID:   id,
		FromStatus: from,
		ToStatus:   to,
		RequestID:  RequestIDFromContext(ctx),
		ChangedAt:  o.now(),
	}
}

func (o *Orchestrator) logFailure(log *logrus.Entry, err error) {
	var re *RepositoryError
	switch {
	case errors.As(err, &re) && re.OrphanRisk():
		log.WithField("contract_id", *re.ContractID).Errorf("workflow step failed after contract was written: %v", err)
	case IsValidation(err) || errors.Is(err, ErrNotFound):
		log.Warnf("workflow request rejected: %v", err)
	default:
		log.Errorf("workflow request failed: %v", err)
	}
}

// contractNumber формирует номер договора вида CT-20260116-1a2b3c4d.
func contractNumber(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("CT-%s-%s", now.Format("20060102"), suffix)
}
