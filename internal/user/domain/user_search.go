package domain

import (
	"strings"

	sharedDomain "github.com/davicafu/hexasearch/internal/shared/domain"
)

const UserEntity = "user"

// UserSearchFrom es el origen de datos de las búsquedas de usuarios.
const UserSearchFrom = "FROM users AS u"

// UserSearchRegistry declara qué puede pedir y filtrar un cliente. La contraseña no se registra.
var UserSearchRegistry = sharedDomain.MustFieldRegistry(UserEntity, "u.UserId",
	[]sharedDomain.Field{
		{Name: "UserLogin", Expr: "u.UserLogin"},
		{Name: "FirstName", Expr: "u.FirstName"},
		{Name: "LastName", Expr: "u.LastName"},
		{Name: "RealName", Expr: "u.RealName"},
		{Name: "Active", Expr: "u.Active"},
		{Name: "InsertUserId", Expr: "u.InsertUserId"},
		{Name: "InsertTimestamp", Expr: "u.InsertTimestamp"},
		{Name: "UpdateUserId", Expr: "u.UpdateUserId"},
		{Name: "UpdateTimestamp", Expr: "u.UpdateTimestamp"},
	},
	[]sharedDomain.Field{
		{Name: "UserId", Expr: "u.UserId"},
		{Name: "UserLogin", Expr: "u.UserLogin"},
		{Name: "FirstName", Expr: "u.FirstName"},
		{Name: "LastName", Expr: "u.LastName"},
		{Name: "RealName", Expr: "u.RealName"},
		{Name: "Active", Expr: "u.Active"},
		{Name: "InsertTimestamp", Expr: "u.InsertTimestamp"},
	},
	sharedDomain.Intent{Name: "summary", Fields: []string{"UserLogin", "RealName", "Active"}},
	sharedDomain.Intent{Name: "audit", Fields: []string{"InsertUserId", "InsertTimestamp", "UpdateUserId", "UpdateTimestamp"}},
)

// normalizeColumn quita el prefijo de tabla y las comillas de identificador.
func normalizeColumn(column string) string {
	if i := strings.LastIndexByte(column, '.'); i >= 0 {
		column = column[i+1:]
	}
	return strings.ToLower(strings.Trim(column, "`\""))
}
