package roles

import (
	"strings"

	"github.com/The-Expanse-Discord/Protomolecule/internal/domain"
)

// normalizeRoleName strips apostrophes and spaces from a role name and
// lowercases it, so "Caliban's War" becomes "calibanswar".
func normalizeRoleName(name string) string {
	name = strings.ReplaceAll(name, "'", "")
	name = strings.ReplaceAll(name, " ", "")
	return strings.ToLower(name)
}

// ResolveRole locates the role a reacted emoji refers to: the first role in
// platform order whose normalized name contains the lowercased emoji name.
// This is a best-effort substring match, not a strict lookup; zero matches
// is a normal outcome for decorative emoji on a tracked message.
func ResolveRole(guildRoles []domain.Role, emojiName string) (domain.Role, bool) {
	needle := strings.ToLower(emojiName)
	if needle == "" {
		return domain.Role{}, false
	}
	for _, role := range guildRoles {
		if strings.Contains(normalizeRoleName(role.Name), needle) {
			return role, true
		}
	}
	return domain.Role{}, false
}
