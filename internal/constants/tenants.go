package constants

const (
	TenantTypeDoctor     = "doctor"
	TenantTypeMentor     = "mentor"
	TenantTypeFreelancer = "freelancer"
	TenantTypeTeacher    = "teacher"
	TenantTypeCompany    = "company"
)

var TenantTypes = []string{
	TenantTypeDoctor,
	TenantTypeMentor,
	TenantTypeFreelancer,
	TenantTypeTeacher,
	TenantTypeCompany,
}

func IsValidTenantType(t string) bool {
	for _, v := range TenantTypes {
		if v == t {
			return true
		}
	}
	return false
}

const (
	TeamSizeSolo   = "solo"
	TeamSizeSmall  = "2-10"
	TeamSizeMedium = "11-50"
	TeamSizeLarge  = "51-200"
	TeamSizeXLarge = "200+"
)

var TeamSizes = []string{TeamSizeSolo, TeamSizeSmall, TeamSizeMedium, TeamSizeLarge, TeamSizeXLarge}

func IsValidTeamSize(s string) bool {
	for _, v := range TeamSizes {
		if v == s {
			return true
		}
	}
	return false
}
