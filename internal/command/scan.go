package command

import (
	"sort"

	"github.com/rsms/redistore/internal/reply"
)

const defaultScanCount = 10

// scanOptions holds the SCAN-family's [MATCH pattern] [COUNT n] options
// that follow the cursor argument, as parsed by parseScanOptions.
type scanOptions struct {
	match *string
	count int64
}

func parseScanOptions(args [][]byte, cmdName string) (scanOptions, *reply.Reply) {
	opts := scanOptions{count: defaultScanCount}
	i := 0
	for i < len(args) {
		switch {
		case eqFold(args[i], "MATCH") && i+1 < len(args):
			m := string(args[i+1])
			opts.match = &m
			i += 2
		case eqFold(args[i], "COUNT") && i+1 < len(args):
			n, ok := parseInt(args[i+1])
			if !ok || n <= 0 {
				r := reply.Errf("value is not an integer or out of range")
				return opts, &r
			}
			opts.count = n
			i += 2
		default:
			r := reply.Err("ERR syntax error")
			return opts, &r
		}
	}
	return opts, nil
}

// scanWindow implements the cursor semantics used for SSCAN/HSCAN/ZSCAN:
// cursor is a plain integer offset into the (filtered) set view;
// nextCursor is 0 when the window reaches the end. members need not be
// pre-sorted; scanWindow sorts a copy so that the view is stable across
// calls within one logical scan.
func scanWindow(members []string, cursor, count int64, matchPattern *string) (window []string, nextCursor int64, errReply *reply.Reply) {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)

	if matchPattern != nil {
		re, err := globToRegexp(*matchPattern)
		if err != nil {
			r := reply.Err("ERR invalid MATCH pattern")
			return nil, 0, &r
		}
		filtered := sorted[:0:0]
		for _, m := range sorted {
			if re.MatchString(m) {
				filtered = append(filtered, m)
			}
		}
		sorted = filtered
	}

	if cursor < 0 || cursor > int64(len(sorted)) {
		cursor = 0
	}

	end := cursor + count
	if end > int64(len(sorted)) {
		end = int64(len(sorted))
	}
	window = sorted[cursor:end]
	if end >= int64(len(sorted)) {
		nextCursor = 0
	} else {
		nextCursor = end
	}
	return window, nextCursor, nil
}
