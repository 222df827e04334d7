package employee

const ProfileKeyPrefix = "employee:profile:"

func GetProfileKey(employeeID string) string {
	return ProfileKeyPrefix + employeeID
}
