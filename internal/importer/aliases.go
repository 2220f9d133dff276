package importer

import "strings"

// Canonical fields resolvable from a source table. Each field carries an
// ordered list of accepted header aliases; resolution is case-insensitive
// and whitespace-trimmed, and the first alias present in the header set
// wins. The vocabulary covers the export variants seen in the field,
// misspellings included.
type field int

const (
	fieldDate field = iota
	fieldApplication
	fieldDepot
	fieldKind
	fieldCollection
	fieldObject
	fieldStartScheduler
	fieldFinishScheduler
	fieldStartBridge
	fieldFinishBridge
	fieldStatus
	fieldNotes
)

var fieldAliases = map[field][]string{
	fieldDate:            {"tanggal", "date"},
	fieldApplication:     {"aplikasi", "app", "application"},
	fieldDepot:           {"depo", "depot"},
	fieldKind:            {"tipe", "type", "kind"},
	fieldCollection:      {"collection", "koleksi"},
	fieldObject:          {"object", "objek"},
	fieldStartScheduler:  {"start scheduler", "start_scheduler"},
	fieldFinishScheduler: {"scheduller finish", "finish scheduler", "finish_scheduler"},
	fieldStartBridge:     {"start bridge", "start_bridge", "start birdge"},
	fieldFinishBridge:    {"finish bridge", "finish_bridge"},
	fieldStatus:          {"status"},
	fieldNotes:           {"notes", "keterangan", "note"},
}

// columnMap binds canonical fields to the concrete header spelling used by
// one source table. Fields with no matching alias stay unbound and read as
// absent for every row.
type columnMap map[field]string

func resolveColumns(headers []string) columnMap {
	normalized := make(map[string]string, len(headers))
	for _, header := range headers {
		key := strings.ToLower(strings.TrimSpace(header))
		if _, taken := normalized[key]; !taken {
			normalized[key] = header
		}
	}

	resolved := make(columnMap)
	for canonical, aliases := range fieldAliases {
		for _, alias := range aliases {
			if concrete, present := normalized[alias]; present {
				resolved[canonical] = concrete
				break
			}
		}
	}
	return resolved
}
