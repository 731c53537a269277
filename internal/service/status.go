package service

import (
	"strings"

	"github.com/profitbridge/platform-api/internal/domain"
)

// Moderation may only move a ledger record along these edges; approved and
// rejected are terminal.
var depositTransitions = map[string]map[string]struct{}{
	domain.DepositStatusPending: {
		domain.DepositStatusApproved: {},
		domain.DepositStatusRejected: {},
	},
	domain.DepositStatusApproved: {},
	domain.DepositStatusRejected: {},
}

var withdrawalTransitions = map[string]map[string]struct{}{
	domain.WithdrawalStatusProcessing: {
		domain.WithdrawalStatusApproved: {},
		domain.WithdrawalStatusRejected: {},
	},
	domain.WithdrawalStatusApproved: {},
	domain.WithdrawalStatusRejected: {},
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

func canTransition(transitions map[string]map[string]struct{}, current, next string) bool {
	current = normalizeStatus(current)
	next = normalizeStatus(next)
	nextStates, ok := transitions[current]
	if !ok {
		return false
	}
	_, ok = nextStates[next]
	return ok
}
