// Package extid provides identifier and digest functions: generate-id,
// uuid and hash.
//
// Security note: md5 and sha1 are provided for fingerprinting only.
package extid

import (
	"crypto/md5"  //nolint:gosec // fingerprinting only
	"crypto/sha1" //nolint:gosec // fingerprinting only
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/ext/extutil"
	"github.com/sandrolain/goxpath/pkg/functions"
	"github.com/sandrolain/goxpath/pkg/types"
)

// Namespace seeds the name-based UUIDs produced by generate-id.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/sandrolain/goxpath/generate-id"))

// All returns all identifier function definitions.
func All() []functions.CustomFunctionDef {
	return []functions.CustomFunctionDef{
		GenerateID(),
		UUID(),
		Hash(),
	}
}

// NodeID returns the identifier generate-id yields for n: a name-based
// (version 5) UUID derived from the document sequence and the node's arena
// index, prefixed with "id-" so that it is a valid XML name.
func NodeID(n document.Node) string {
	if n.IsZero() {
		return ""
	}
	key := strconv.FormatUint(n.Document().Seq(), 10) + "/" + strconv.Itoa(n.Index())
	return "id-" + uuid.NewSHA1(Namespace, []byte(key)).String()
}

// GenerateID returns the definition for generate-id([node-set]).
// The identifier is stable for a node within the process and distinct
// between nodes; an empty node-set yields "".
func GenerateID() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "generate-id",
		MinArgs: 0,
		MaxArgs: 1,
		Fn: func(call functions.Call, args ...types.Value) (types.Value, error) {
			if len(args) == 0 {
				return types.String(NodeID(call.Node)), nil
			}
			nodes, err := extutil.Nodes("generate-id", args, 0)
			if err != nil {
				return nil, err
			}
			first, ok := nodes.Set.First()
			if !ok {
				return types.String(""), nil
			}
			return types.String(NodeID(first)), nil
		},
	}
}

// UUID returns the definition for uuid().
// Generates a random version 4 UUID.
func UUID() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "uuid",
		MinArgs: 0,
		MaxArgs: 0,
		Fn: func(_ functions.Call, _ ...types.Value) (types.Value, error) {
			id, err := uuid.NewRandom()
			if err != nil {
				return nil, extutil.Errorf("uuid", "%v", err)
			}
			return types.String(id.String()), nil
		},
	}
}

// Hash returns the definition for hash(str [, algorithm]).
// Supported algorithms: "md5", "sha1", "sha256" (default), "sha384", "sha512".
// Returns a lowercase hex-encoded digest.
func Hash() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "hash",
		MinArgs: 1,
		MaxArgs: 2,
		Fn: func(_ functions.Call, args ...types.Value) (types.Value, error) {
			algorithm := "sha256"
			if len(args) == 2 {
				algorithm = strings.ToLower(args[1].AsString())
			}
			h := newHasher(algorithm)
			if h == nil {
				return nil, extutil.Errorf("hash", "unsupported algorithm %q; use md5, sha1, sha256, sha384, or sha512", algorithm)
			}
			h.Write([]byte(args[0].AsString()))
			return types.String(hex.EncodeToString(h.Sum(nil))), nil
		},
	}
}

func newHasher(algorithm string) hash.Hash {
	switch algorithm {
	case "md5":
		return md5.New() //nolint:gosec
	case "sha1":
		return sha1.New() //nolint:gosec
	case "sha256":
		return sha256.New()
	case "sha384":
		return sha512.New384()
	case "sha512":
		return sha512.New()
	default:
		return nil
	}
}
