package helper

import "cinema_reservation/constants"

type Role string

const (
	RoleCustomer   Role = constants.ROLE_CUSTOMER
	RoleEmployee   Role = constants.ROLE_EMPLOYEE
	RoleAdmin      Role = constants.ROLE_ADMIN
	RoleSuperadmin Role = constants.ROLE_SUPERADMIN
)

type Capability string

const (
	CapBookingsOwn     Capability = "bookings:own"
	CapBookingsManage  Capability = "bookings:manage"
	CapCatalogWrite    Capability = "catalog:write"
	CapReviewsModerate Capability = "reviews:moderate"
	CapIncidentsManage Capability = "incidents:manage"
	CapUsersManage     Capability = "users:manage"
	CapUsersPromote    Capability = "users:promote"
)

var policy = map[Role][]Capability{
	RoleCustomer: {CapBookingsOwn},
	RoleEmployee: {CapBookingsOwn, CapBookingsManage, CapReviewsModerate, CapIncidentsManage},
	RoleAdmin: {CapBookingsOwn, CapBookingsManage, CapCatalogWrite, CapReviewsModerate,
		CapIncidentsManage, CapUsersManage},
	RoleSuperadmin: {CapBookingsOwn, CapBookingsManage, CapCatalogWrite, CapReviewsModerate,
		CapIncidentsManage, CapUsersManage, CapUsersPromote},
}

func (r Role) Valid() bool {
	_, ok := policy[r]
	return ok
}

// Can reports whether role holds every capability in caps.
func Can(role Role, caps ...Capability) bool {
	granted, ok := policy[role]
	if !ok {
		return false
	}
	for _, want := range caps {
		found := false
		for _, g := range granted {
			if g == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
