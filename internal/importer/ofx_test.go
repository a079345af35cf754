package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-dashboard/internal/apperr"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const ofxHeader = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240701120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
`

const bankSection = `<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>Info
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240601120000[0:GMT]
<DTEND>20240630120000[0:GMT]
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>15250.75
<DTASOF>20240630120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
`

const cardSection = `<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>2
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240601120000[0:GMT]
<DTEND>20240628120000[0:GMT]
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-1250.25
<DTASOF>20240628120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
`

func ofxFile(sections ...string) string {
	return ofxHeader + strings.Join(sections, "") + "</OFX>"
}

func TestParseBankAndCard(t *testing.T) {
	stmt, err := NewParser(zap.NewNop()).Parse(strings.NewReader(ofxFile(bankSection, cardSection)))
	require.NoError(t, err)
	require.Len(t, stmt.Accounts, 2)

	bank := stmt.Accounts[0]
	assert.Equal(t, "1234567890", bank.ExternalID)
	assert.Equal(t, model.KindAsset, bank.Kind)
	assert.True(t, bank.Balance.Equal(decimal.RequireFromString("15250.75")), "bank balance %s", bank.Balance)
	assert.Contains(t, bank.Name, "...7890")

	card := stmt.Accounts[1]
	assert.Equal(t, model.KindLiability, card.Kind)
	assert.True(t, card.Balance.Equal(decimal.RequireFromString("-1250.25")), "card balance %s", card.Balance)

	assert.Equal(t, time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC), stmt.AsOf.UTC())
}

func TestSnapshotSumsAssetsAndLiabilities(t *testing.T) {
	userID := uuid.New()
	fallback := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)

	snap, err := NewParser(nil).Snapshot(strings.NewReader(ofxFile(bankSection, cardSection)), userID, fallback)
	require.NoError(t, err)

	assert.Equal(t, userID, snap.UserID)
	assert.Equal(t, model.SourceOFX, snap.Source)
	assert.True(t, snap.Assets.Equal(decimal.RequireFromString("15250.75")))
	assert.True(t, snap.Liabilities.Equal(decimal.RequireFromString("1250.25")))
	assert.True(t, snap.NetWorth.Equal(decimal.RequireFromString("14000.50")), "net worth %s", snap.NetWorth)
	assert.Equal(t, time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC), snap.RecordedAt)
}

func TestParseRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "Garbage", input: "not valid OFX"},
		{name: "Empty", input: ""},
		{name: "No statements", input: ofxFile()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(nil).Parse(strings.NewReader(tt.input))
			assert.True(t, apperr.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, "...1111", mask("4111111111111111"))
	assert.Equal(t, "123", mask("123"))
}
