// Package domain holds the aggregate used by the repository test suite.
package domain

import (
	"encoding/json"
	"fmt"

	"github.com/codewandler/esrepo-go/core/es"
	"github.com/codewandler/esrepo-go/core/es/assert"
)

type (
	Account struct {
		es.BaseAggregate

		Owner   string `json:"owner"`
		Balance int    `json:"balance"`
		Opened  bool   `json:"opened"`

		NumDeposits    int `json:"num_deposits"`
		NumWithdrawals int `json:"num_withdrawals"`
	}

	AccountOpened struct {
		Owner          string `json:"owner"`
		InitialBalance int    `json:"initial_balance"`
	}
	MoneyDeposited struct {
		Amount int `json:"amount"`
	}
	MoneyWithdrawn struct {
		Amount int `json:"amount"`
	}
)

func (e *MoneyDeposited) Validate() error {
	if e.Amount <= 0 {
		return fmt.Errorf("deposit amount must be positive, got %d", e.Amount)
	}
	return nil
}

func (a *Account) Snapshot() (data []byte, err error) { return json.Marshal(a) }
func (a *Account) RestoreSnapshot(data []byte) error  { return json.Unmarshal(data, a) }
func (a *Account) GetAggType() string                 { return "account" }

func (a *Account) Register(r es.Registrar) {
	es.RegisterEvents(
		r,
		es.Event[AccountOpened](),
		es.Event[MoneyDeposited](),
		es.Event[MoneyWithdrawn](),
	)
}

func (a *Account) Apply(event any) error {
	switch e := event.(type) {
	case *AccountOpened:
		a.Opened = true
		a.Owner = e.Owner
		a.Balance = e.InitialBalance
	case *MoneyDeposited:
		a.Balance += e.Amount
		a.NumDeposits++
	case *MoneyWithdrawn:
		a.Balance -= e.Amount
		a.NumWithdrawals++
	default:
		return fmt.Errorf("unknown event: %T", event)
	}
	return nil
}

var _ es.Snapshottable = &Account{}

// === Commands ===

func (a *Account) Open(owner string, initialBalance int) error {
	return a.Checked(
		assert.False(a.Opened, "account must not be open"),
		func() error {
			return es.RaiseAndApply(a, &AccountOpened{Owner: owner, InitialBalance: initialBalance})
		},
	)
}

func (a *Account) Deposit(amount int) error {
	return es.RaiseAndApply(a, &MoneyDeposited{Amount: amount})
}

func (a *Account) Withdraw(amount int) error {
	return a.Checked(
		assert.All(
			assert.True(a.Opened, "account must be open"),
			assert.Condf(func() bool { return a.Balance >= amount }, "insufficient funds: balance=%d requested=%d", a.Balance, amount),
		),
		func() error {
			return es.RaiseAndApply(a, &MoneyWithdrawn{Amount: amount})
		},
	)
}

func NewAccount(id string) *Account {
	a := &Account{}
	a.SetID(id)
	return a
}
