package narrator

import "strings"

// PreferredVoices are engine names known to sound good for short numeric
// prompts. Matching is by substring against the platform's voice names; the
// first match in listed order wins, otherwise the platform default is used.
var PreferredVoices = []string{"Google", "Samantha", "Microsoft"}

// SelectVoice picks the first available voice whose name contains one of the
// preferred names. Returns "" (platform default) when nothing matches.
func SelectVoice(available, preferred []string) string {
	for _, want := range preferred {
		for _, v := range available {
			if strings.Contains(v, want) {
				return v
			}
		}
	}
	return ""
}

// parseSayVoices extracts voice names from `say -v ?` output. Each line looks
// like "Samantha            en_US    # Hello, my name is Samantha".
func parseSayVoices(out string) []string {
	var voices []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		// Multi-word names run until the locale column (contains "_" or "-").
		name := fields[0]
		for _, f := range fields[1:] {
			if strings.ContainsAny(f, "_-") || f == "#" {
				break
			}
			name += " " + f
		}
		voices = append(voices, name)
	}
	return voices
}

// parseEspeakVoices extracts voice names from `espeak --voices` output,
// skipping the header row. The VoiceName is the fourth column.
func parseEspeakVoices(out string) []string {
	var voices []string
	for i, line := range strings.Split(out, "\n") {
		if i == 0 {
			continue // "Pty Language Age/Gender VoiceName ..." header
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, fields[3])
	}
	return voices
}
