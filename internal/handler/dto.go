package handler

import (
	"time"

	"github.com/msomdec/bank-ledger/internal/domain"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// AccountDTO is the JSON representation of an account. Balance is in the
// smallest currency unit.
type AccountDTO struct {
	Number     int64  `json:"number"`
	HolderName string `json:"holderName"`
	Type       string `json:"type"`
	Balance    int64  `json:"balance"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

func toAccountDTO(a *domain.Account) AccountDTO {
	return AccountDTO{
		Number:     a.Number,
		HolderName: a.HolderName,
		Type:       string(a.Type),
		Balance:    a.Balance,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  a.UpdatedAt.Format(time.RFC3339),
	}
}

func toAccountDTOs(accounts []domain.Account) []AccountDTO {
	dtos := make([]AccountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = toAccountDTO(&accounts[i])
	}
	return dtos
}

// StatsDTO is the JSON representation of the aggregate account summary.
type StatsDTO struct {
	TotalAccounts int64 `json:"totalAccounts"`
	TotalBalance  int64 `json:"totalBalance"`
	SavingsCount  int64 `json:"savingsCount"`
	CurrentCount  int64 `json:"currentCount"`
}

func toStatsDTO(s *domain.Stats) StatsDTO {
	return StatsDTO{
		TotalAccounts: s.TotalAccounts,
		TotalBalance:  s.TotalBalance,
		SavingsCount:  s.SavingsCount,
		CurrentCount:  s.CurrentCount,
	}
}
