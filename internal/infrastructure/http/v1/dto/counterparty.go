package dto

import (
	"time"

	"recordbase/internal/core/types"
	"recordbase/internal/domain/catalogs/counterparty"
)

// --- Request DTOs ---

// CreateCounterpartyRequest is the request body for creating a counterparty.
type CreateCounterpartyRequest struct {
	Code        string            `json:"code"`
	Name        string            `json:"name" binding:"required"`
	Type        counterparty.Type `json:"type" binding:"required"`
	CreditLimit *string           `json:"creditLimit"`
	TaxID       *string           `json:"taxId"`
	Email       *string           `json:"email"`
	Phone       *string           `json:"phone"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCounterpartyRequest) ToEntity() (*counterparty.Counterparty, error) {
	cp := counterparty.New(r.Code, r.Name, r.Type)
	if r.CreditLimit != nil {
		limit, err := types.NewMoneyFromString(*r.CreditLimit)
		if err != nil {
			return nil, err
		}
		cp.CreditLimit = limit
	}
	cp.TaxID = r.TaxID
	cp.Email = r.Email
	cp.Phone = r.Phone
	return cp, nil
}

// UpdateCounterpartyRequest is the request body for updating a counterparty.
type UpdateCounterpartyRequest struct {
	Code        string              `json:"code"`
	Name        string              `json:"name" binding:"required"`
	Type        counterparty.Type   `json:"type" binding:"required"`
	Status      counterparty.Status `json:"status" binding:"required"`
	CreditLimit *string             `json:"creditLimit"`
	TaxID       *string             `json:"taxId"`
	Email       *string             `json:"email"`
	Phone       *string             `json:"phone"`
	Version     int                 `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCounterpartyRequest) ApplyTo(cp *counterparty.Counterparty) error {
	cp.Code = r.Code
	cp.Name = r.Name
	cp.Type = r.Type
	cp.Status = r.Status
	if r.CreditLimit != nil {
		limit, err := types.NewMoneyFromString(*r.CreditLimit)
		if err != nil {
			return err
		}
		cp.CreditLimit = limit
	}
	cp.TaxID = r.TaxID
	cp.Email = r.Email
	cp.Phone = r.Phone
	cp.Version = r.Version
	cp.UpdatedAt = time.Now().UTC()
	return nil
}

// --- Response DTOs ---

// BankAccountResponse contains bank account fields.
type BankAccountResponse struct {
	ID       string `json:"id"`
	IBAN     string `json:"iban"`
	BankName string `json:"bankName"`
	Currency string `json:"currency"`
}

// CounterpartyResponse contains counterparty fields. CreditLimit serializes
// as a string to keep full decimal precision.
type CounterpartyResponse struct {
	ID           string                `json:"id"`
	Code         string                `json:"code"`
	Name         string                `json:"name"`
	Type         string                `json:"type"`
	Status       string                `json:"status"`
	CreditLimit  string                `json:"creditLimit"`
	TaxID        *string               `json:"taxId,omitempty"`
	Email        *string               `json:"email,omitempty"`
	Phone        *string               `json:"phone,omitempty"`
	DeletionMark bool                  `json:"deletionMark"`
	Version      int                   `json:"version"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
	BankAccounts []BankAccountResponse `json:"bankAccounts,omitempty"`
}

// FromCounterparty creates CounterpartyResponse from the entity.
func FromCounterparty(cp counterparty.Counterparty) CounterpartyResponse {
	resp := CounterpartyResponse{
		ID:           cp.ID.String(),
		Code:         cp.Code,
		Name:         cp.Name,
		Type:         string(cp.Type),
		Status:       string(cp.Status),
		CreditLimit:  cp.CreditLimit.String(),
		TaxID:        cp.TaxID,
		Email:        cp.Email,
		Phone:        cp.Phone,
		DeletionMark: cp.DeletionMark,
		Version:      cp.Version,
		CreatedAt:    cp.CreatedAt,
		UpdatedAt:    cp.UpdatedAt,
	}
	for _, acc := range cp.BankAccounts {
		resp.BankAccounts = append(resp.BankAccounts, BankAccountResponse{
			ID:       acc.ID.String(),
			IBAN:     acc.IBAN,
			BankName: acc.BankName,
			Currency: acc.Currency,
		})
	}
	return resp
}
