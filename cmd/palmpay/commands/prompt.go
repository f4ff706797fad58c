package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// One shared reader so buffered input survives across prompts.
var stdin *bufio.Reader

// promptLine prints label and reads one trimmed line from the command's
// input stream.
func promptLine(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	if stdin == nil {
		stdin = bufio.NewReader(cmd.InOrStdin())
	}
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptYes asks a yes/no question and defaults to no.
func promptYes(cmd *cobra.Command, label string) bool {
	ans, err := promptLine(cmd, label+" [y/N] ")
	if err != nil {
		return false
	}
	ans = strings.ToLower(ans)
	return ans == "y" || ans == "yes"
}
