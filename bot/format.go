package bot

import (
	"fmt"
	"strings"

	"caixinha/models"
)

// Reply texts, kept in the bot's original Portuguese voice.
const (
	MsgInvalidAmount     = "Valor inválido! Por favor, use o formato correto: comando seguido de um número positivo."
	MsgInsufficientFunds = "Valor da despesa maior que o saldo disponível!"
	MsgInternalError     = "Não consegui processar sua mensagem agora. Tente novamente em instantes."
	MsgPing              = "testado"

	MsgHelp = "Comandos disponíveis:\n\n" +
		"ganhei [valor] - Adicionar receita\n" +
		"recebi [valor] - Adicionar receita\n" +
		"gastei [valor] - Registrar despesa\n" +
		"paguei [valor] - Registrar despesa\n" +
		"!total - Ver saldo atual\n" +
		"!extrato - Ver histórico completo\n" +
		"!ajuda - Ver esta lista de comandos\n" +
		"!teste - Testar o bot"
)

const statementTimeLayout = "02/01/2006 15:04:05"

func kindLabel(kind models.TransactionKind) string {
	if kind == models.TransactionKindExpense {
		return "Despesa"
	}
	return "Receita"
}

// FormatBalance renders the reply for a balance query
func FormatBalance(balance int64) string {
	return fmt.Sprintf("Seu saldo atual é de R$%d", balance)
}

// FormatDeposit renders the reply for a successful deposit
func FormatDeposit(amount, newBalance int64) string {
	return fmt.Sprintf("Receita de R$%d adicionada com sucesso!\nNovo saldo: R$%d", amount, newBalance)
}

// FormatWithdraw renders the reply for a successful withdrawal
func FormatWithdraw(amount, newBalance int64) string {
	return fmt.Sprintf("Despesa de R$%d registrada com sucesso!\nNovo saldo: R$%d", amount, newBalance)
}

// FormatStatement renders the balance and the full ledger as display
// text: header, balance line, then one numbered line per transaction in
// commit order.
func FormatStatement(balance int64, transactions []*models.Transaction) string {
	var b strings.Builder
	b.WriteString("Extrato Atual:\n\n")
	fmt.Fprintf(&b, "Saldo atual: R$%d\n\n", balance)
	b.WriteString("Histórico de transações:\n")
	for i, t := range transactions {
		fmt.Fprintf(&b, "%d. %s R$%d - %s\n", i+1, kindLabel(t.Kind), t.Value, t.CreatedAt.Format(statementTimeLayout))
	}
	return b.String()
}
