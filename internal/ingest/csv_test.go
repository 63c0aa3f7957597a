package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTransactions(t *testing.T) {
	in := Header + "\n" +
		"2025-03-01,-42.50,Food,Esselunga,shared,groceries;weekly,ada,weekly shop\n" +
		"2025-03-02,1500,Income,ACME,shared,,ada,salary\n"

	txs, stats, err := ReadTransactions(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, Stats{Read: 2}, stats)

	assert.Equal(t, int64(-4250), txs[0].Amount.Cents)
	assert.Equal(t, "Food", txs[0].Category)
	assert.Equal(t, []string{"groceries", "weekly"}, txs[0].Tags)
	assert.Equal(t, 1, txs[0].Date.Day())

	assert.Equal(t, int64(150000), txs[1].Amount.Cents)
	assert.True(t, txs[1].Amount.IsInflow())
	assert.Nil(t, txs[1].Tags)
}

func TestReadTransactionsSkipsBadRows(t *testing.T) {
	in := Header + "\n" +
		"not-a-date,-10.00,Food,a,,,,\n" +
		"2025-03-01,not-a-number,Food,b,,,,\n" +
		"2025-03-02,0,Food,zero amount,,,,\n" +
		"2025-03-03,-10.00,Food,keep,,,,\n"

	txs, stats, err := ReadTransactions(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "keep", txs[0].Merchant)
	assert.Equal(t, Stats{Read: 1, Skipped: 3}, stats)
}

func TestReadTransactionsRejectsWrongHeader(t *testing.T) {
	_, _, err := ReadTransactions(strings.NewReader("a,b,c,d,e,f,g,h\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected ledger CSV header")
}

func TestReadTransactionsEmptyInput(t *testing.T) {
	txs, stats, err := ReadTransactions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.Equal(t, Stats{}, stats)
}

func TestParseAmountCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "12.30", want: 1230},
		{in: "-7", want: -700},
		{in: "0.005", want: 1},
		{in: "-0.005", want: -1},
		{in: " 3.50 ", want: 350},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseAmountCents(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
