package parse

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/pmtable/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Deceased(t *testing.T) {
	p := NewParser(2024)

	rec, err := p.Parse("Jawaharlal Nehru(1889–1964) MP for Phulpur")
	require.NoError(t, err)

	want := model.Record{Name: "Jawaharlal Nehru", BirthYear: 1889, DeathYear: 1964, Alive: false, Age: 75}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Living(t *testing.T) {
	p := NewParser(2024)

	rec, err := p.Parse("Narendra Modi(born 1950) MP for Varanasi")
	require.NoError(t, err)

	want := model.Record{Name: "Narendra Modi", BirthYear: 1950, DeathYear: 2024, Alive: true, Age: 74}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Forms(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.Record
	}{
		{
			name: "hyphen separator",
			raw:  "Lal Bahadur Shastri(1904-1966) MP for Allahabad",
			want: model.Record{Name: "Lal Bahadur Shastri", BirthYear: 1904, DeathYear: 1966, Age: 62},
		},
		{
			name: "em dash with spaces",
			raw:  "Indira Gandhi(1917 — 1984)",
			want: model.Record{Name: "Indira Gandhi", BirthYear: 1917, DeathYear: 1984, Age: 67},
		},
		{
			name: "no space before description",
			raw:  "Morarji Desai(1896–1995)MP for Surat",
			want: model.Record{Name: "Morarji Desai", BirthYear: 1896, DeathYear: 1995, Age: 99},
		},
		{
			name: "full dates",
			raw:  "Charan Singh(23 December 1902 – 29 May 1987) MP for Baghpat",
			want: model.Record{Name: "Charan Singh", BirthYear: 1902, DeathYear: 1987, Age: 85},
		},
		{
			name: "padded name",
			raw:  "  Manmohan   Singh (born 1932) MP for Assam",
			want: model.Record{Name: "Manmohan Singh", BirthYear: 1932, DeathYear: 2000, Alive: true, Age: 68},
		},
		{
			name: "years in trailing text are ignored",
			raw:  "Gulzarilal Nanda(1898–1998) acting 1964 and 1966",
			want: model.Record{Name: "Gulzarilal Nanda", BirthYear: 1898, DeathYear: 1998, Age: 100},
		},
		{
			name: "born in trailing text does not classify",
			raw:  "V. P. Singh(1931–2008) MP for Fatehpur, born leader",
			want: model.Record{Name: "V. P. Singh", BirthYear: 1931, DeathYear: 2008, Age: 77},
		},
	}

	p := NewParser(2000)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.raw)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{"no parenthesis", "Jawaharlal Nehru 1889–1964", "no opening parenthesis"},
		{"unclosed", "Jawaharlal Nehru(1889–1964", "no closing parenthesis"},
		{"empty name", "(1889–1964) MP for Phulpur", "empty name"},
		{"no digits", "Jawaharlal Nehru(unknown) MP for Phulpur", "no birth year inside parentheses"},
		{"no dash", "Jawaharlal Nehru(1889 1964)", "no dash after birth year 1889"},
		{"no death year", "Jawaharlal Nehru(1889–?)", "no death year after birth year 1889"},
		{"born without year", "Narendra Modi(born) MP for Varanasi", `no year after "born"`},
		{"death year only in trailing text", "Jawaharlal Nehru(1889–) 1964", "no death year after birth year 1889"},
		{"death before birth", "Jawaharlal Nehru(1964–1889)", "birth year 1964 is not before 1889"},
		{"born after reference year", "Someone Young(born 2030)", "birth year 2030 is not before 2024"},
	}

	p := NewParser(2024)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.Parse(tt.raw)
			require.Error(t, err)
			assert.Equal(t, model.Record{}, rec)
			assert.True(t, errors.Is(err, ErrUnparseable))

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.raw, perr.Raw)
			assert.Equal(t, tt.reason, perr.Reason)
			assert.Contains(t, err.Error(), tt.raw)
		})
	}
}

func TestParseAll_SortsAndDedupes(t *testing.T) {
	p := NewParser(2024)

	raws := []string{
		"Narendra Modi(born 1950) MP for Varanasi",
		"Jawaharlal Nehru(1889–1964) MP for Phulpur",
		"Narendra Modi(born 1950) MP for Varanasi",
		"Gulzarilal Nanda(1898–1998) MP for Sabarkantha",
		"Jawaharlal Nehru(1889–1964) MP for Phulpur",
	}

	got, err := p.ParseAll(raws)
	require.NoError(t, err)

	want := []model.Record{
		{Name: "Jawaharlal Nehru", BirthYear: 1889, DeathYear: 1964, Age: 75},
		{Name: "Gulzarilal Nanda", BirthYear: 1898, DeathYear: 1998, Age: 100},
		{Name: "Narendra Modi", BirthYear: 1950, DeathYear: 2024, Alive: true, Age: 74},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAll_RejectsWholeBatch(t *testing.T) {
	p := NewParser(2024)

	raws := []string{
		"Jawaharlal Nehru(1889–1964) MP for Phulpur",
		"Broken Entry MP for Nowhere",
		"Narendra Modi(born 1950) MP for Varanasi",
	}

	got, err := p.ParseAll(raws)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "Broken Entry MP for Nowhere")
}

func TestParseAll_Idempotent(t *testing.T) {
	p := NewParser(2024)
	raws := []string{
		"Narendra Modi(born 1950) MP for Varanasi",
		"Jawaharlal Nehru(1889–1964) MP for Phulpur",
		"Manmohan Singh(1932–2024) MP for Assam",
	}

	first, err := p.ParseAll(raws)
	require.NoError(t, err)
	second, err := p.ParseAll(raws)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestParseAll_Empty(t *testing.T) {
	got, err := NewParser(2024).ParseAll(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClassify(t *testing.T) {
	bio, err := Classify("Narendra Modi(born 1950) MP for Varanasi")
	require.NoError(t, err)
	assert.Equal(t, LivingBiography{Name: "Narendra Modi", Birth: 1950}, bio)

	bio, err = Classify("Jawaharlal Nehru(1889–1964) MP for Phulpur")
	require.NoError(t, err)
	assert.Equal(t, DeceasedBiography{Name: "Jawaharlal Nehru", Birth: 1889, Death: 1964}, bio)
}

func TestReferenceYearIsCallerSupplied(t *testing.T) {
	raw := "Narendra Modi(born 1950) MP for Varanasi"

	for _, year := range []int{2014, 2024, 2030} {
		rec, err := NewParser(year).Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, year, rec.DeathYear)
		assert.Equal(t, year-1950, rec.Age)
	}
}
