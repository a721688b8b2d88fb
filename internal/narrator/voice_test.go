package narrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectVoice(t *testing.T) {
	tests := []struct {
		name      string
		available []string
		want      string
	}{
		{"prefers first match in preference order", []string{"Alex", "Microsoft Zira", "Samantha"}, "Samantha"},
		{"google outranks samantha", []string{"Samantha", "Google UK English"}, "Google UK English"},
		{"falls back to default", []string{"Alex", "Victoria"}, ""},
		{"empty available", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectVoice(tt.available, PreferredVoices))
		})
	}
}

func TestParseSayVoices(t *testing.T) {
	out := "Alex                en_US    # Most people recognize me by my voice.\n" +
		"Samantha            en_US    # Hello, my name is Samantha.\n" +
		"Ting-Ting           zh_CN    # Ni hao.\n"

	voices := parseSayVoices(out)
	assert.Equal(t, []string{"Alex", "Samantha", "Ting-Ting"}, voices)
}

func TestParseSayVoices_MultiWordNames(t *testing.T) {
	out := "Bad News            en_US    # The light you see at the end of the tunnel.\n"

	voices := parseSayVoices(out)
	assert.Equal(t, []string{"Bad News"}, voices)
}

func TestParseEspeakVoices(t *testing.T) {
	out := "Pty Language       Age/Gender VoiceName          File                 Other Languages\n" +
		" 5  en-gb           M  english             en                   (en-uk 2)(en 2)\n" +
		" 2  en-us           M  english-us          en-us                (en-r 5)(en 3)\n"

	voices := parseEspeakVoices(out)
	assert.Equal(t, []string{"english", "english-us"}, voices)
}

func TestParseEspeakVoices_EmptyOutput(t *testing.T) {
	assert.Empty(t, parseEspeakVoices(""))
}
