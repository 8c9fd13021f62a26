package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "title abbreviation is not a boundary",
			text: "Dr. Smith went to Washington. He won.",
			want: []string{"Dr. Smith went to Washington.", "He won."},
		},
		{
			name: "website suffix is not a boundary",
			text: "Visit example.com. It's great.",
			want: []string{"Visit example.com.", "It's great."},
		},
		{
			name: "decimal numbers are kept whole",
			text: "Pi is about 3.14 in value. That is well known.",
			want: []string{"Pi is about 3.14 in value.", "That is well known."},
		},
		{
			name: "acronym followed by a starter splits",
			text: "She moved to the U.S. He stayed in Canada.",
			want: []string{"She moved to the U.S.", "He stayed in Canada."},
		},
		{
			name: "acronym followed by However splits",
			text: "Prices rose in the U.K. However wages did not.",
			want: []string{"Prices rose in the U.K.", "However wages did not."},
		},
		{
			name: "acronym mid sentence is protected",
			text: "The U.S. economy grew last year.",
			want: []string{"The U.S. economy grew last year."},
		},
		{
			name: "suffix followed by a starter splits",
			text: "He works at Acme Inc. They make anvils.",
			want: []string{"He works at Acme Inc.", "They make anvils."},
		},
		{
			name: "suffix mid sentence is protected",
			text: "Acme Inc. makes anvils.",
			want: []string{"Acme Inc. makes anvils."},
		},
		{
			name: "Ph.D is protected",
			text: "She earned a Ph.D. in physics. Then she taught.",
			want: []string{"She earned a Ph.D. in physics.", "Then she taught."},
		},
		{
			name: "ellipsis ends a sentence",
			text: "Wait... what happened?",
			want: []string{"Wait...", "what happened?"},
		},
		{
			name: "question and exclamation marks",
			text: "Is it true? Yes! It is.",
			want: []string{"Is it true?", "Yes!", "It is."},
		},
		{
			name: "punctuation moves outside closing quote",
			text: `He said "stop." Then he left.`,
			want: []string{`He said "stop".`, "Then he left."},
		},
		{
			name: "newlines are folded",
			text: "First line.\nSecond line.",
			want: []string{"First line.", "Second line."},
		},
		{
			name: "single initial is protected",
			text: "John F. Kennedy was president.",
			want: []string{"John F. Kennedy was president."},
		},
		{
			name: "text without terminator is one sentence",
			text: "no punctuation here",
			want: []string{"no punctuation here"},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.text))
		})
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := "Mr. Jones arrived at 9.30 a.m. on Monday. The U.S. team met him... It went well!"
	first := Split(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Split(text))
	}
}

func TestSplit_IdempotentPerSentence(t *testing.T) {
	text := "Dr. Smith went to Washington. He won. Visit example.com. It's great."
	for _, sentence := range Split(text) {
		assert.Equal(t, []string{sentence}, Split(sentence))
	}
}

func TestLocate(t *testing.T) {
	t.Run("verbatim sentences", func(t *testing.T) {
		text := "Cats are pets. Dogs are pets too."
		sentences := Split(text)
		spans := Locate(text, sentences)

		assert.Len(t, spans, 2)
		for i, span := range spans {
			assert.Equal(t, sentences[i], text[span.Start:span.End])
		}
	})

	t.Run("repeated sentences advance", func(t *testing.T) {
		text := "Yes. Yes. Yes."
		spans := Locate(text, Split(text))

		assert.Len(t, spans, 3)
		assert.Equal(t, 0, spans[0].Start)
		assert.Equal(t, 5, spans[1].Start)
		assert.Equal(t, 10, spans[2].Start)
	})

	t.Run("rewritten sentence anchored on prefix", func(t *testing.T) {
		text := `He said "stop." Then he left.`
		sentences := Split(text)
		spans := Locate(text, sentences)

		assert.Len(t, spans, 2)
		assert.Equal(t, 0, spans[0].Start)
		assert.Equal(t, "Then he left.", text[spans[1].Start:spans[1].End])
	})

	t.Run("spans never exceed text", func(t *testing.T) {
		text := "short"
		spans := Locate(text, []string{"a much longer sentence than the text"})

		assert.Len(t, spans, 1)
		assert.LessOrEqual(t, spans[0].End, len(text))
	})

	t.Run("ends are non-decreasing", func(t *testing.T) {
		text := "One. Two.\nThree? Four!"
		_, spans := Sentences(text)

		for i := 1; i < len(spans); i++ {
			assert.GreaterOrEqual(t, spans[i].End, spans[i-1].End)
		}
	})
}
