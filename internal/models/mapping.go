package models

import "sort"

// ColumnRole is the semantic meaning of a tabular column.
type ColumnRole string

const (
	RoleDate        ColumnRole = "date"
	RoleDescription ColumnRole = "description"
	RoleValue       ColumnRole = "value"
	RoleDebit       ColumnRole = "debit"
	RoleCredit      ColumnRole = "credit"
	RoleCategory    ColumnRole = "category"
)

// ColumnRoles lists every role in detection order.
var ColumnRoles = []ColumnRole{RoleDate, RoleDescription, RoleValue, RoleDebit, RoleCredit, RoleCategory}

// ColumnMapping maps roles to zero-based column indexes. An absent role is legal.
type ColumnMapping map[ColumnRole]int

// Has reports whether role is mapped.
func (m ColumnMapping) Has(role ColumnRole) bool {
	_, ok := m[role]
	return ok
}

// Index returns the column for role and whether it is mapped.
func (m ColumnMapping) Index(role ColumnRole) (int, bool) {
	i, ok := m[role]
	return i, ok
}

// MaxIndex returns the highest mapped column, or -1 for an empty mapping.
func (m ColumnMapping) MaxIndex() int {
	max := -1
	for _, i := range m {
		if i > max {
			max = i
		}
	}
	return max
}

// HasAmount reports whether rows can yield a value, either from a single
// value column or from a debit or credit column.
func (m ColumnMapping) HasAmount() bool {
	return m.Has(RoleValue) || m.Has(RoleDebit) || m.Has(RoleCredit)
}

// Roles returns the mapped roles ordered by column index.
func (m ColumnMapping) Roles() []ColumnRole {
	roles := make([]ColumnRole, 0, len(m))
	for r := range m {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool {
		if m[roles[i]] == m[roles[j]] {
			return roles[i] < roles[j]
		}
		return m[roles[i]] < m[roles[j]]
	})
	return roles
}
