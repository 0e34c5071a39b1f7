package user

import (
	"sort"

	"github.com/go-playground/validator/v10"
)

var (
	allRolesTag  = "allroles"
	allRolesText = "invalid roles"
)

// allRolesValidation checks that all provided roles are known.
func allRolesValidation(fl validator.FieldLevel) bool {
	roles, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}

	all := make([]string, len(AllRoles))
	copy(all, AllRoles)
	sort.Strings(all)

	for _, role := range roles {
		i := sort.SearchStrings(all, role)
		if i >= len(all) || all[i] != role {
			return false
		}
	}
	return true
}
