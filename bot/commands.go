package bot

import (
	"errors"
	"strconv"
	"strings"
)

// OperationKind classifies a parsed message
type OperationKind int

const (
	OpUnrecognized OperationKind = iota
	OpDeposit
	OpWithdraw
	OpBalance
	OpStatement
	OpHelp
	OpPing
)

// Operation is the parsed intent of one inbound message
type Operation struct {
	Kind   OperationKind
	Amount int64
	Raw    string
}

// ErrInvalidAmount is returned when an amount-carrying command has a
// missing, non-integer or non-positive argument.
var ErrInvalidAmount = errors.New("invalid amount")

// The command grammar, enumerated once. Keyword commands carry an amount
// in the second whitespace token and match case-insensitively; exact
// commands match the raw text as literally sent.
var (
	keywordCommands = map[string]OperationKind{
		"ganhei": OpDeposit,
		"recebi": OpDeposit,
		"gastei": OpWithdraw,
		"paguei": OpWithdraw,
	}

	exactCommands = map[string]OperationKind{
		"!total":   OpBalance,
		"!extrato": OpStatement,
		"!ajuda":   OpHelp,
		"!teste":   OpPing,
	}
)

// Parse classifies raw message text into an Operation. Text matching no
// known command yields OpUnrecognized with a nil error; an amount-carrying
// command with a bad argument yields its kind and ErrInvalidAmount.
func Parse(text string) (Operation, error) {
	if kind, ok := exactCommands[text]; ok {
		return Operation{Kind: kind, Raw: text}, nil
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Operation{Kind: OpUnrecognized, Raw: text}, nil
	}

	kind, ok := keywordCommands[strings.ToLower(fields[0])]
	if !ok {
		return Operation{Kind: OpUnrecognized, Raw: text}, nil
	}

	if len(fields) < 2 {
		return Operation{Kind: kind, Raw: text}, ErrInvalidAmount
	}

	amount, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || amount <= 0 {
		return Operation{Kind: kind, Raw: text}, ErrInvalidAmount
	}

	return Operation{Kind: kind, Amount: amount, Raw: text}, nil
}
