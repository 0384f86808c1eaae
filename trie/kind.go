package trie

// Kind is the closed set of Bonsai trie kinds this module knows how to
// read. Each kind fixes its column triple, default identifier prefix, and
// hash family.
type Kind int

const (
	// Contract is the global contract-state trie.
	Contract Kind = iota
	// Storage is a per-contract storage trie, keyed by a Felt identifier.
	Storage
	// Class is the global class-hash trie.
	Class
)

// String renders the wire spelling of a Kind: lowercase "contract",
// "storage", or "class".
func (k Kind) String() string {
	switch k {
	case Contract:
		return "contract"
	case Storage:
		return "storage"
	case Class:
		return "class"
	default:
		return "unknown"
	}
}

// ParseKind parses the wire spelling of a Kind. The zero value and false
// are returned for anything else.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "contract":
		return Contract, true
	case "storage":
		return Storage, true
	case "class":
		return Class, true
	default:
		return 0, false
	}
}

// columns names the three column families a Kind reads from.
type columns struct {
	trie string
	flat string
	log  string
}

var columnsByKind = map[Kind]columns{
	Contract: {trie: "bonsai_contract_trie", flat: "bonsai_contract_flat", log: "bonsai_contract_log"},
	Storage:  {trie: "bonsai_contract_storage_trie", flat: "bonsai_contract_storage_flat", log: "bonsai_contract_storage_log"},
	Class:    {trie: "bonsai_class_trie", flat: "bonsai_class_flat", log: "bonsai_class_log"},
}

// contractIdentifierPrefix and classIdentifierPrefix are the fixed
// identifier prefixes for the Contract and Class tries. Storage tries have
// no fixed prefix: the caller must supply a Felt identifier.
var (
	contractIdentifierPrefix = []byte("0xcontract")
	classIdentifierPrefix    = []byte("0xclass")
)

// RequiredColumns lists the nine column names a store must carry for this
// module to operate, in the stable order of the kind table.
func RequiredColumns() []string {
	order := []Kind{Contract, Storage, Class}
	out := make([]string, 0, len(order)*3)
	for _, k := range order {
		c := columnsByKind[k]
		out = append(out, c.trie, c.flat, c.log)
	}
	return out
}
