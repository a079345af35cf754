// Package importer reads account balances from OFX/QFX statement downloads.
package importer

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"
	"github.com/iwvelando/finance-dashboard/internal/apperr"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	severityPattern = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)`)
	unclosedTag     = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// ErrNoStatements is returned for a well-formed file without bank or
// credit-card statements.
var ErrNoStatements = errors.New("no bank or credit card statements in file")

// Statement is the set of ledger balances found in one file.
type Statement struct {
	Accounts []model.Account
	AsOf     time.Time
}

// Parser extracts balances from OFX files.
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a Parser.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// Parse reads r and returns one account per bank or credit-card statement.
// Credit cards and credit lines are liabilities.
func (p *Parser) Parse(r io.Reader) (Statement, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Statement{}, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return Statement{}, apperr.NewValidationError("file", fmt.Sprintf("not a valid OFX statement: %v", err))
	}

	var stmt Statement
	for _, msg := range resp.Bank {
		bank, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		kind := model.KindAsset
		if bank.BankAcctFrom.AcctType == ofxgo.AcctTypeCreditLine {
			kind = model.KindLiability
		}
		stmt.add(model.Account{
			ExternalID: string(bank.BankAcctFrom.AcctID),
			Name:       fmt.Sprintf("%s %s", bank.BankAcctFrom.AcctType, mask(string(bank.BankAcctFrom.AcctID))),
			Kind:       kind,
			Balance:    amount(bank.BalAmt),
		}, bank.DtAsOf.Time)
	}

	for _, msg := range resp.CreditCard {
		card, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		stmt.add(model.Account{
			ExternalID: string(card.CCAcctFrom.AcctID),
			Name:       "CREDITCARD " + mask(string(card.CCAcctFrom.AcctID)),
			Kind:       model.KindLiability,
			Balance:    amount(card.BalAmt),
		}, card.DtAsOf.Time)
	}

	if len(stmt.Accounts) == 0 {
		return Statement{}, apperr.NewValidationError("file", ErrNoStatements.Error())
	}

	p.logger.Info("parsed OFX statement",
		zap.String("op", "importer.Parse"),
		zap.Int("accounts", len(stmt.Accounts)),
		zap.Time("asOf", stmt.AsOf))
	return stmt, nil
}

// Snapshot parses r and sums its balances into a snapshot for userID. The
// snapshot is dated at the statement's latest balance date, or fallback when
// the file carries none.
func (p *Parser) Snapshot(r io.Reader, userID uuid.UUID, fallback time.Time) (model.NetWorthSnapshot, error) {
	stmt, err := p.Parse(r)
	if err != nil {
		return model.NetWorthSnapshot{}, err
	}
	at := stmt.AsOf
	if at.IsZero() {
		at = fallback
	}
	return model.NewSnapshot(userID, stmt.Accounts, model.SourceOFX, at.UTC()), nil
}

func (s *Statement) add(a model.Account, asOf time.Time) {
	s.Accounts = append(s.Accounts, a)
	if asOf.After(s.AsOf) {
		s.AsOf = asOf
	}
}

func amount(a ofxgo.Amount) decimal.Decimal {
	d, err := decimal.NewFromString(a.FloatString(2))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// mask keeps the last four characters of an account number.
func mask(acctID string) string {
	if len(acctID) <= 4 {
		return acctID
	}
	return "..." + acctID[len(acctID)-4:]
}

func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTag.ReplaceAllString(content, "$1>")
}
