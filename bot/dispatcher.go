package bot

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"caixinha/service"
)

// IncomingMessage is one inbound chat event as delivered by the transport
type IncomingMessage struct {
	ExternalID string
	Body       string
	Timestamp  time.Time
}

// ReplyFunc delivers reply text for the message being handled. Delivery
// failure is the transport's concern, not the ledger's.
type ReplyFunc func(ctx context.Context, text string) error

// Dispatcher ties one inbound message to parsing, ledger execution and
// reply delivery. No error escapes HandleMessage: every failure either
// becomes a user-facing reply or is logged and answered generically, so a
// bad message never takes down the processing loop.
type Dispatcher struct {
	users  service.UserService
	ledger service.LedgerService
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(users service.UserService, ledger service.LedgerService) *Dispatcher {
	return &Dispatcher{
		users:  users,
		ledger: ledger,
	}
}

// HandleMessage processes one inbound message and delivers at most one
// reply: exactly one for recognized commands, none for unrecognized text.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg IncomingMessage, reply ReplyFunc) {
	logger := log.WithFields(log.Fields{
		"externalID": msg.ExternalID,
		"dispatchID": uuid.NewString(),
	})

	op, parseErr := Parse(msg.Body)

	switch {
	case op.Kind == OpUnrecognized:
		logger.Debug("Ignoring unrecognized message")
		return
	case parseErr != nil:
		// Only amount validation can fail here; no state was touched
		d.send(ctx, logger, reply, MsgInvalidAmount)
		return
	case op.Kind == OpPing:
		d.send(ctx, logger, reply, MsgPing)
		return
	case op.Kind == OpHelp:
		d.send(ctx, logger, reply, MsgHelp)
		return
	}

	user, err := d.users.GetOrCreateUser(ctx, msg.ExternalID)
	if err != nil {
		logger.Errorf("Failed to resolve user: %v", err)
		d.send(ctx, logger, reply, MsgInternalError)
		return
	}

	var text string
	switch op.Kind {
	case OpDeposit:
		newBalance, err := d.ledger.Deposit(ctx, user.ID, op.Amount)
		if err != nil {
			d.send(ctx, logger, reply, d.errorReply(logger, err))
			return
		}
		text = FormatDeposit(op.Amount, newBalance)

	case OpWithdraw:
		newBalance, err := d.ledger.Withdraw(ctx, user.ID, op.Amount)
		if err != nil {
			d.send(ctx, logger, reply, d.errorReply(logger, err))
			return
		}
		text = FormatWithdraw(op.Amount, newBalance)

	case OpBalance:
		balance, err := d.ledger.Balance(ctx, user.ID)
		if err != nil {
			d.send(ctx, logger, reply, d.errorReply(logger, err))
			return
		}
		text = FormatBalance(balance)

	case OpStatement:
		balance, transactions, err := d.ledger.Statement(ctx, user.ID)
		if err != nil {
			d.send(ctx, logger, reply, d.errorReply(logger, err))
			return
		}
		text = FormatStatement(balance, transactions)
	}

	d.send(ctx, logger, reply, text)
}

// errorReply maps a ledger error to reply text. Validation outcomes get
// their specific message; everything else is a storage-level failure that
// gets logged and answered generically.
func (d *Dispatcher) errorReply(logger *log.Entry, err error) string {
	switch {
	case errors.Is(err, service.ErrInsufficientFunds):
		return MsgInsufficientFunds
	case errors.Is(err, service.ErrInvalidAmount):
		return MsgInvalidAmount
	default:
		logger.Errorf("Ledger operation failed: %v", err)
		return MsgInternalError
	}
}

func (d *Dispatcher) send(ctx context.Context, logger *log.Entry, reply ReplyFunc, text string) {
	if err := reply(ctx, text); err != nil {
		logger.Errorf("Failed to deliver reply: %v", err)
	}
}
