package extract

import (
	"regexp"
	"strings"

	"github.com/theoremus-urban-solutions/transit-query-resolver/gazetteer"
)

var (
	routePattern   = regexp.MustCompile(`^[A-Za-z]{0,2}[0-9]{1,3}$`)
	codePattern    = regexp.MustCompile(`^[0-9]{5}$`)
	hashtagPattern = regexp.MustCompile(`(^|\s)#\w+`)
)

// politeness tokens carry no routing information and are dropped everywhere.
var politeness = map[string]struct{}{
	"please": {}, "thanks": {}, "thank": {}, "you": {},
}

// Mode words riders prepend to the actual request. "dlr" is absent from the
// rail set because there it is a line name, not filler.
var (
	busFillers  = map[string]struct{}{"bus": {}, "tube": {}, "train": {}, "dlr": {}}
	railFillers = map[string]struct{}{"bus": {}, "tube": {}, "train": {}}
)

// Extractor owns the sanitize rules and the line dictionary.
type Extractor struct {
	dict     *Dictionary
	handleRE *regexp.Regexp // strips the engine's own mention anywhere
}

// NewExtractor builds an Extractor. botHandle is the engine's own social
// handle, stripped wherever it appears in incoming text; empty disables
// that rule.
func NewExtractor(dict *Dictionary, botHandle string) *Extractor {
	e := &Extractor{dict: dict}
	if h := strings.TrimPrefix(strings.TrimSpace(botHandle), "@"); h != "" {
		e.handleRE = regexp.MustCompile(`(?i)@` + regexp.QuoteMeta(h) + `\b`)
	}
	return e
}

// Extract parses one message for the given mode. It never fails; text with
// nothing recognizable yields an empty ParsedRequest.
func (e *Extractor) Extract(text string, mode gazetteer.Mode) ParsedRequest {
	tokens := e.tokenize(text)
	if len(tokens) == 0 {
		return ParsedRequest{}
	}

	head, origin, dest, explicitFrom := splitSlots(tokens)

	var pr ParsedRequest
	var leftover []string
	if mode == gazetteer.ModeBus {
		leftover = parseBusHead(&pr, head)
	} else {
		leftover = e.parseRailHead(&pr, head, mode)
	}
	if len(leftover) > 0 {
		if !explicitFrom && len(origin) == 0 {
			// Implied "from": the head remainder is the origin.
			origin = leftover
		} else {
			pr.LineText = strings.Join(trimTrailingLineWord(leftover), " ")
		}
	}

	if n := len(origin); n > 0 {
		if c, ok := strongDirection(origin[n-1]); ok {
			pr.Direction = c
			origin = origin[:n-1]
		}
	}
	if mode == gazetteer.ModeBus && pr.StopCode == "" && len(origin) == 1 && codePattern.MatchString(origin[0]) {
		pr.StopCode = origin[0]
		origin = nil
	}
	pr.StopText = strings.Join(origin, " ")
	pr.Location = pr.StopText

	if n := len(dest); n > 0 {
		if c, ok := anyDirection(dest[0]); ok && n == 1 {
			if pr.Direction == "" {
				pr.Direction = c
			}
			dest = nil
		} else if c, ok := strongDirection(dest[n-1]); ok {
			if pr.Direction == "" {
				pr.Direction = c
			}
			dest = dest[:n-1]
		}
	}
	pr.Destination = strings.Join(dest, " ")
	return pr
}

// tokenize sanitizes the raw message and splits it into lowercase tokens:
// the engine's own handle goes everywhere it appears, reply mentions go
// from the front, hashtags and politeness go entirely.
func (e *Extractor) tokenize(text string) []string {
	s := text
	if e.handleRE != nil {
		s = e.handleRE.ReplaceAllString(s, " ")
	}
	s = hashtagPattern.ReplaceAllString(s, " ")
	s = strings.ToLower(s)

	var tokens []string
	for _, f := range strings.Fields(s) {
		if strings.HasPrefix(f, "@") && len(tokens) == 0 {
			continue
		}
		tok := strings.Trim(f, `,.!?;:"()[]`)
		if tok == "" {
			continue
		}
		if _, polite := politeness[tok]; polite {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// splitSlots divides tokens into head, origin and destination around the
// separators "from" and "to"/"towards". Either order works: "A from X to Y"
// and "A to Y from X" land in the same slots.
func splitSlots(tokens []string) (head, origin, dest []string, explicitFrom bool) {
	fromIdx, toIdx := len(tokens), len(tokens)
	for i, tok := range tokens {
		switch tok {
		case "from":
			if fromIdx == len(tokens) {
				fromIdx = i
			}
		case "to", "towards":
			if toIdx == len(tokens) {
				toIdx = i
			}
		}
	}
	explicitFrom = fromIdx < len(tokens)
	switch {
	case fromIdx < toIdx:
		head = tokens[:fromIdx]
		if toIdx < len(tokens) {
			origin = tokens[fromIdx+1 : toIdx]
			dest = tokens[toIdx+1:]
		} else {
			origin = tokens[fromIdx+1:]
		}
	case toIdx < fromIdx:
		head = tokens[:toIdx]
		if fromIdx < len(tokens) {
			origin = tokens[fromIdx+1:]
			dest = tokens[toIdx+1 : fromIdx]
		} else {
			dest = tokens[toIdx+1:]
		}
	default:
		head = tokens
	}
	return head, origin, dest, explicitFrom
}

// parseBusHead consumes the leading run of route and stop-code tokens.
func parseBusHead(pr *ParsedRequest, head []string) (leftover []string) {
	i := 0
	for i < len(head) {
		tok := head[i]
		if _, filler := busFillers[tok]; filler {
			i++
			continue
		}
		if pr.StopCode == "" && codePattern.MatchString(tok) {
			pr.StopCode = tok
			i++
			continue
		}
		if routePattern.MatchString(tok) {
			pr.Routes = append(pr.Routes, strings.ToUpper(tok))
			i++
			continue
		}
		break
	}
	return head[i:]
}

// parseRailHead consumes the leading run of recognized line names.
// Line names appearing after other words are left as plain text, so stop
// names that embed a line name ("Victoria") are not mistaken for one.
func (e *Extractor) parseRailHead(pr *ParsedRequest, head []string, mode gazetteer.Mode) (leftover []string) {
	var kept []string
	for _, tok := range head {
		if _, filler := railFillers[tok]; !filler {
			kept = append(kept, tok)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	canon := e.dict.Canonical(strings.Join(kept, " "))
	cursor := 0
	for _, h := range e.dict.FindLines(canon, mode) {
		if strings.TrimSpace(canon[cursor:h.Start]) != "" {
			break
		}
		pr.LineIDs = append(pr.LineIDs, h.LineID)
		cursor = h.End
	}
	rest := strings.TrimSpace(canon[cursor:])
	if rest == "" {
		return nil
	}
	return strings.Fields(rest)
}

func trimTrailingLineWord(tokens []string) []string {
	if n := len(tokens); n > 0 && tokens[n-1] == "line" {
		return tokens[:n-1]
	}
	return tokens
}
