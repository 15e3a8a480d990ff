package slots

import "strconv"

// RunClass is the classification of one character run.
type RunClass struct {
	Type     Type
	Token    string // normalized token used for frequency counting
	Template string // template token, e.g. DIGITS4, WORD6, FRAG, SYMBOL
}

// Options control run classification.
type Options struct {
	Leet  bool
	Vocab Vocabulary // nil disables WORD classification
}

// Tokens shorter than this never classify as WORD.
const minWordLength = 3

// SplitRuns cuts a password into maximal runs of ASCII digits, ASCII
// letters, or anything else. Multi-byte characters land in symbol runs.
func SplitRuns(password string) []string {
	if password == "" {
		return nil
	}
	runs := make([]string, 0, 4)
	start := 0
	last := byteClass(password[0])
	for i := 1; i < len(password); i++ {
		c := byteClass(password[i])
		if c == last {
			continue
		}
		runs = append(runs, password[start:i])
		start = i
		last = c
	}
	return append(runs, password[start:])
}

const (
	classDigit = iota
	classAlpha
	classOther
)

func byteClass(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return classDigit
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return classAlpha
	default:
		return classOther
	}
}

// Classify assigns a slot type and tokens to a single run. It is pure: the
// only external state it reads is the vocabulary set, and an absent
// vocabulary degrades every alphabetic run to FRAG. Mixed-class input that
// did not come from SplitRuns counts as a symbol run.
func Classify(run string, opts Options) RunClass {
	if run == "" {
		return RunClass{Type: Frag, Template: Frag.String()}
	}
	switch {
	case uniformClass(run, classDigit):
		return RunClass{
			Type:     Digits,
			Token:    run,
			Template: Digits.String() + strconv.Itoa(len(run)),
		}
	case uniformClass(run, classAlpha):
		token := normalizeToken(run, opts.Leet)
		if opts.Vocab != nil && len(token) >= minWordLength && opts.Vocab.Contains(token) {
			return RunClass{
				Type:     Word,
				Token:    token,
				Template: Word.String() + strconv.Itoa(len(token)),
			}
		}
		return RunClass{Type: Frag, Token: token, Template: Frag.String()}
	default:
		return RunClass{Type: Symbol, Token: run, Template: Symbol.String()}
	}
}

func uniformClass(run string, class int) bool {
	for i := 0; i < len(run); i++ {
		if byteClass(run[i]) != class {
			return false
		}
	}
	return true
}

// ClassifyPassword splits a password and classifies every run in order.
func ClassifyPassword(password string, opts Options) []RunClass {
	runs := SplitRuns(password)
	if runs == nil {
		return nil
	}
	classes := make([]RunClass, len(runs))
	for i, run := range runs {
		classes[i] = Classify(run, opts)
	}
	return classes
}
