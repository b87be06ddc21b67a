package resolve

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/PeterSK-bit/dups-scanner/pkg/models"
)

// Decision is the outcome of a per-pair removal decision
type Decision string

const (
	// DecisionDelete removes the target-side file
	DecisionDelete Decision = "delete"
	// DecisionKeep leaves the target-side file in place
	DecisionKeep Decision = "keep"
)

// Decider decides what to do with the target side of a duplicate pair.
// Implementations must not delete anything themselves; the engine
// applies the decision.
type Decider interface {
	// Decide returns the decision for one pair
	Decide(pair models.DuplicatePair) (Decision, error)

	// Name returns the decider name
	Name() string
}

// AutoDecider always deletes. It backs the --delete flag.
type AutoDecider struct{}

// NewAutoDecider creates a decider that deletes every pair
func NewAutoDecider() *AutoDecider {
	return &AutoDecider{}
}

// Decide always returns DecisionDelete
func (d *AutoDecider) Decide(pair models.DuplicatePair) (Decision, error) {
	return DecisionDelete, nil
}

// Name returns the decider name
func (d *AutoDecider) Name() string {
	return "auto"
}

// KeepDecider never deletes. It backs dry runs and non-interactive
// sessions without the --delete flag.
type KeepDecider struct{}

// NewKeepDecider creates a decider that keeps every pair
func NewKeepDecider() *KeepDecider {
	return &KeepDecider{}
}

// Decide always returns DecisionKeep
func (d *KeepDecider) Decide(pair models.DuplicatePair) (Decision, error) {
	return DecisionKeep, nil
}

// Name returns the decider name
func (d *KeepDecider) Name() string {
	return "keep"
}

// PromptDecider asks the user per pair on an interactive stream.
// Anything other than an affirmative answer keeps the file.
type PromptDecider struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptDecider creates a decider reading answers from in and
// writing prompts to out
func NewPromptDecider(in io.Reader, out io.Writer) *PromptDecider {
	return &PromptDecider{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Decide prompts for one pair and parses the answer
func (d *PromptDecider) Decide(pair models.DuplicatePair) (Decision, error) {
	fmt.Fprintf(d.out, "Duplicate: %s <-> %s\n", pair.SourcePath, pair.TargetPath)
	fmt.Fprint(d.out, "Delete second file? (y/N): ")

	line, err := d.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return DecisionKeep, fmt.Errorf("failed to read answer: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	if answer == "y" || answer == "yes" {
		return DecisionDelete, nil
	}

	return DecisionKeep, nil
}

// Name returns the decider name
func (d *PromptDecider) Name() string {
	return "prompt"
}
