package oab_test

import (
	"sync"
	"testing"

	"github.com/forestrie/go-oab/oab"
	"github.com/forestrie/go-oab/oabtesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleAliceAndBob(t *testing.T) {
	files, err := oab.Assemble(oabtesting.AliceAndBob())
	require.NoError(t, err)

	entries, err := oab.ReadParentTable(files.RDN)
	require.NoError(t, err)
	require.Equal(t, []oab.ParentEntry{
		{Name: "DC=example,DC=com", Offset: 16},
		{Name: "example.com", Offset: 34},
	}, entries)

	records, err := oab.ReadRDNChain(files.RDN)
	require.NoError(t, err)
	require.Len(t, records, 4)

	keys := make([]string, 0, len(records))
	for _, r := range records {
		keys = append(keys, r.Key)
	}
	assert.Equal(t, []string{"Alice", "alice@", "Bob", "bob@"}, keys)

	// Both dn records share the one DC=example,DC=com entry and both mail
	// records share the one example.com entry.
	assert.Equal(t, uint32(16), records[0].ParentDN)
	assert.Equal(t, uint32(34), records[1].ParentDN)
	assert.Equal(t, uint32(16), records[2].ParentDN)
	assert.Equal(t, uint32(34), records[3].ParentDN)

	assert.Equal(t, []uint32{0, 0, 1, 1}, []uint32{
		records[0].Browse, records[1].Browse, records[2].Browse, records[3].Browse})
	assert.Equal(t, uint32(0), records[0].Prev)
	assert.Equal(t, uint32(0), records[3].Next)

	h, err := oab.DecodeRDNHeader(files.RDN)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), h.TotRecs)
	assert.Equal(t, uint32(16+18+12), h.Root)
	assert.Equal(t, h.Root, records[0].Offset)
}

func TestAssembleRejectsEmpty(t *testing.T) {
	files, err := oab.Assemble(nil)
	require.ErrorIs(t, err, oab.ErrEmptyAccountSet)
	assert.Equal(t, oab.Files{}, files)

	files, err = oab.Assemble([]oab.Account{})
	require.ErrorIs(t, err, oab.ErrEmptyAccountSet)
	assert.Equal(t, oab.Files{}, files)
}

func TestCheckRecordCountAtFormatLimit(t *testing.T) {
	require.NoError(t, oab.CheckRecordCount(16777212, oab.DefaultMaxRecords))
	require.ErrorIs(t, oab.CheckRecordCount(16777213, oab.DefaultMaxRecords), oab.ErrRecordCountOverflow)
}

func TestAssembleRejectsOverflowWithoutTruncating(t *testing.T) {
	g := oabtesting.NewTestGenerator(oabtesting.TestGeneratorConfig{Seed: 1})
	accounts := g.Accounts(4)

	a := oab.NewAssembler(oab.WithMaxRecords(3))
	files, err := a.Assemble(accounts)
	require.ErrorIs(t, err, oab.ErrRecordCountOverflow)
	assert.Equal(t, oab.Files{}, files)

	files, err = a.Assemble(accounts[:3])
	require.NoError(t, err)
	assert.NotEmpty(t, files.RDN)
}

func TestNewConfigClampsMaxRecords(t *testing.T) {
	assert.Equal(t, oab.DefaultMaxRecords, oab.NewConfig().MaxRecords)
	assert.Equal(t, oab.DefaultMaxRecords, oab.NewConfig(oab.WithMaxRecords(0)).MaxRecords)
	assert.Equal(t, oab.DefaultMaxRecords, oab.NewConfig(oab.WithMaxRecords(oab.DefaultMaxRecords+1)).MaxRecords)
	assert.Equal(t, 10, oab.NewAssembler(oab.WithMaxRecords(10)).Config().MaxRecords)
}

func TestAssembleValidation(t *testing.T) {
	valid := oabtesting.AliceAndBob()[0]

	tests := []struct {
		name   string
		mutate func(*oab.Account)
		want   error
	}{
		{"dn without comma", func(a *oab.Account) { a.DN = "CN=Alice" }, oab.ErrValidation},
		{"rdn without value", func(a *oab.Account) { a.DN = "Alice,DC=example" }, oab.ErrValidation},
		{"mail without at", func(a *oab.Account) { a.Mail = "alice.example.com" }, oab.ErrValidation},
		{"mail with two at", func(a *oab.Account) { a.Mail = "alice@x@example.com" }, oab.ErrValidation},
		{"nul in display name", func(a *oab.Account) { a.DisplayName = "Ali\x00ce" }, oab.ErrValidation},
		{"unknown type", func(a *oab.Account) { a.Type = oab.AccountType(7) }, oab.ErrInvalidAccountType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := valid
			tt.mutate(&bad)
			// The bad account is last so any partial work on the others
			// would be visible if it leaked.
			files, err := oab.Assemble([]oab.Account{valid, bad})
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, oab.Files{}, files)
		})
	}
}

func TestAssembleRDNProperties(t *testing.T) {
	for _, n := range []int{1, 2, 7, 50, 333} {
		g := oabtesting.NewTestGenerator(oabtesting.TestGeneratorConfig{Seed: int64(n)})
		accounts := g.Accounts(n)

		files, err := oab.Assemble(accounts)
		require.NoError(t, err)

		h, err := oab.DecodeRDNHeader(files.RDN)
		require.NoError(t, err)
		require.Equal(t, uint32(2*n), h.TotRecs)

		forward, err := oab.ReadRDNChain(files.RDN)
		require.NoError(t, err)
		require.Len(t, forward, 2*n)
		require.Equal(t, uint32(0), forward[len(forward)-1].Next)

		// Walking back from the terminal record reproduces the sequence in
		// reverse.
		var backward []uint32
		for off := forward[len(forward)-1].Offset; off != 0; {
			rec, err := oab.DecodeRDNRecord(files.RDN, off)
			require.NoError(t, err)
			backward = append(backward, rec.Offset)
			off = rec.Prev
		}
		require.Len(t, backward, len(forward))
		for i := range forward {
			require.Equal(t, forward[i].Offset, backward[len(backward)-1-i])
		}

		// Round trip: every account's keys and parents come back in order.
		for i, acc := range accounts {
			dnRec, mailRec := forward[2*i], forward[2*i+1]

			key, err := acc.RDNKey()
			require.NoError(t, err)
			parent, err := acc.ParentDN()
			require.NoError(t, err)
			require.Equal(t, key, dnRec.Key)
			got, err := oab.ParentAt(files.RDN, dnRec.ParentDN)
			require.NoError(t, err)
			require.Equal(t, parent, got)

			mailKey, err := acc.MailKey()
			require.NoError(t, err)
			domain, err := acc.MailDomain()
			require.NoError(t, err)
			require.Equal(t, mailKey, mailRec.Key)
			got, err = oab.ParentAt(files.RDN, mailRec.ParentDN)
			require.NoError(t, err)
			require.Equal(t, domain, got)

			require.Equal(t, uint32(i), dnRec.Browse)
			require.Equal(t, uint32(i), mailRec.Browse)
		}

		// The parent table holds each distinct parent exactly once.
		entries, err := oab.ReadParentTable(files.RDN)
		require.NoError(t, err)
		seen := map[string]bool{}
		for _, e := range entries {
			require.False(t, seen[e.Name], "duplicate parent %q", e.Name)
			seen[e.Name] = true
		}
	}
}

func TestAssembleANR(t *testing.T) {
	accounts := oabtesting.AliceAndBob()
	accounts[0].DisplayName = "Alice Liddell"
	accounts[0].Alias = "ali"
	accounts[1].Surname = "Builder"
	accounts[1].Office = "Zaragoza"

	files, err := oab.Assemble(accounts)
	require.NoError(t, err)

	h, err := oab.DecodeANRHeader(files.ANR)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), h.TotRecs)

	records, err := oab.ReadANRChain(files.ANR)
	require.NoError(t, err)
	require.Len(t, records, 4)

	type want struct {
		value  string
		browse uint32
		alias  bool
	}
	var got []want
	for _, r := range records {
		got = append(got, want{r.Value, r.Browse, r.Alias})
	}
	assert.Equal(t, []want{
		{"Alice Liddell", 0, false},
		{"ali", 0, true},
		{"Builder", 1, false},
		{"Zaragoza", 1, false},
	}, got)
	assert.Equal(t, uint32(oab.ANRHeaderBytes), records[0].Offset)
	assert.Equal(t, uint32(0), records[3].Next)
}

func TestAssembleANRWithoutAttributes(t *testing.T) {
	files, err := oab.Assemble(oabtesting.AliceAndBob())
	require.NoError(t, err)

	assert.Len(t, files.ANR, oab.ANRHeaderBytes)
	records, err := oab.ReadANRChain(files.ANR)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAssembleANRCountMatchesPresentAttributes(t *testing.T) {
	g := oabtesting.NewTestGenerator(oabtesting.TestGeneratorConfig{Seed: 42})
	accounts := g.Accounts(200)

	files, err := oab.Assemble(accounts)
	require.NoError(t, err)

	h, err := oab.DecodeANRHeader(files.ANR)
	require.NoError(t, err)
	assert.Equal(t, oab.ANRRecordCount(accounts), h.TotRecs)

	records, err := oab.ReadANRChain(files.ANR)
	require.NoError(t, err)
	assert.Len(t, records, int(h.TotRecs))
}

func TestAssembleBrowse(t *testing.T) {
	g := oabtesting.NewTestGenerator(oabtesting.TestGeneratorConfig{Seed: 3})
	accounts := g.Accounts(20)

	files, err := oab.Assemble(accounts)
	require.NoError(t, err)
	require.Len(t, files.Browse, int(oab.BrowseFileBytes(len(accounts))))

	h, err := oab.DecodeBrowseHeader(files.Browse)
	require.NoError(t, err)
	require.Equal(t, uint32(20), h.TotRecs)

	for i, acc := range accounts {
		rec, err := oab.DecodeBrowseRecord(files.Browse, uint32(i))
		require.NoError(t, err)
		assert.Equal(t, acc.Type, rec.DispType)
		assert.Equal(t, acc.SendRichInfo, rec.RichInfo())
	}
}

func TestAssembleIsDeterministicAndConcurrent(t *testing.T) {
	g := oabtesting.NewTestGenerator(oabtesting.TestGeneratorConfig{Seed: 9})
	accounts := g.Accounts(100)

	want, err := oab.Assemble(accounts)
	require.NoError(t, err)

	a := oab.NewAssembler()
	results := make([]oab.Files, 8)
	errs := make([]error, 8)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = a.Assemble(accounts)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		require.Equal(t, want, results[i])
	}
}
