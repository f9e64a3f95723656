package domain

import (
	"time"
)

// User es la proyección de un usuario devuelta por una búsqueda.
// UserID siempre viene relleno; el resto sólo si la búsqueda lo seleccionó.
type User struct {
	UserID          int64      `json:"userId"`
	UserLogin       *string    `json:"userLogin,omitempty"`
	FirstName       *string    `json:"firstName,omitempty"`
	LastName        *string    `json:"lastName,omitempty"`
	RealName        *string    `json:"realName,omitempty"`
	Active          *int64     `json:"active,omitempty"`
	InsertUserID    *int64     `json:"insertUserId,omitempty"`
	InsertTimestamp *time.Time `json:"insertTimestamp,omitempty"`
	UpdateUserID    *int64     `json:"updateUserId,omitempty"`
	UpdateTimestamp *time.Time `json:"updateTimestamp,omitempty"`
}

// ScanTarget devuelve el destino de Scan para una columna de resultado (sin distinguir
// mayúsculas: Postgres devuelve los nombres en minúsculas). ok=false si no corresponde
// a ningún campo.
func (u *User) ScanTarget(column string) (dest interface{}, ok bool) {
	switch normalizeColumn(column) {
	case "userid":
		return &u.UserID, true
	case "userlogin":
		return &u.UserLogin, true
	case "firstname":
		return &u.FirstName, true
	case "lastname":
		return &u.LastName, true
	case "realname":
		return &u.RealName, true
	case "active":
		return &u.Active, true
	case "insertuserid":
		return &u.InsertUserID, true
	case "inserttimestamp":
		return &u.InsertTimestamp, true
	case "updateuserid":
		return &u.UpdateUserID, true
	case "updatetimestamp":
		return &u.UpdateTimestamp, true
	}
	return nil, false
}

// SearchResult es una página de usuarios. Sin paginación TotalCount es el número de filas.
type SearchResult struct {
	Items      []*User `json:"items"`
	TotalCount int64   `json:"totalCount"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
}
