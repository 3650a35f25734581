package wizard

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// PromptField renders one field on the terminal and returns the entered
// value in the shape the validator and backend expect. This is the renderer
// half of the registry: each field kind gets its own input flow.
func PromptField(scanner *bufio.Scanner, def FieldDef) any {
	switch def.Kind {
	case KindAddress:
		sub := make(map[string]any, len(AddressSubfields))
		fmt.Printf("%s:\n", def.Label)
		for _, part := range AddressSubfields {
			fmt.Printf("  %s: ", part)
			scanner.Scan()
			sub[part] = strings.TrimSpace(scanner.Text())
		}
		return sub
	case KindNumber:
		fmt.Printf("%s: ", def.Label)
		scanner.Scan()
		text := strings.TrimSpace(scanner.Text())
		if n, err := strconv.Atoi(text); err == nil {
			return n
		}
		return text
	case KindLongText:
		fmt.Printf("%s (end with an empty line):\n", def.Label)
		var lines []string
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				break
			}
			lines = append(lines, line)
		}
		return strings.Join(lines, "\n")
	case KindDate:
		fmt.Printf("%s (YYYY-MM-DD): ", def.Label)
		scanner.Scan()
		return strings.TrimSpace(scanner.Text())
	default:
		fmt.Printf("%s: ", def.Label)
		scanner.Scan()
		return strings.TrimSpace(scanner.Text())
	}
}
