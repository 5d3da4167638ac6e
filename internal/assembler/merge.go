package assembler

import "github.com/srg/casekit/internal/model"

// listMergedFields concatenate on merge instead of overriding, case items
// first.
var listMergedFields = []string{"pre_command", "post_command", "verify"}

// override merges an api definition's body onto a case block: definition
// fields replace case fields, case fields absent from the definition are
// kept, and the three command/verify lists concatenate. The result is a
// fresh block; neither input is mutated and merged lists never alias either
// side.
func override(def map[string]any, cb model.CaseBlock) model.CaseBlock {
	out := make(model.CaseBlock, len(cb)+len(def))
	for k, v := range cb {
		out[k] = v
	}
	for k, v := range def {
		out[k] = v
	}

	for _, field := range listMergedFields {
		defList, defOK := asList(def[field])
		caseList, caseOK := asList(cb[field])

		switch {
		case defOK && caseOK:
			merged := make([]any, 0, len(caseList)+len(defList))
			merged = append(merged, caseList...)
			merged = append(merged, defList...)
			out[field] = merged
		case defOK:
			out[field] = defList
		case caseOK:
			out[field] = caseList
		}
	}
	return out
}

func asList(v any) ([]any, bool) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	return list, true
}
