package enums

import "fmt"

// NotificationPolicy decides which order status changes trigger emails.
type NotificationPolicy string

const (
	NotificationPolicyConfirmedOnly NotificationPolicy = "confirmed_only"
	NotificationPolicyEveryUpdate   NotificationPolicy = "every_update"
)

var validNotificationPolicies = []NotificationPolicy{
	NotificationPolicyConfirmedOnly,
	NotificationPolicyEveryUpdate,
}

// String implements fmt.Stringer.
func (n NotificationPolicy) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationPolicy.
func (n NotificationPolicy) IsValid() bool {
	for _, candidate := range validNotificationPolicies {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationPolicy converts raw input into a NotificationPolicy.
func ParseNotificationPolicy(value string) (NotificationPolicy, error) {
	for _, candidate := range validNotificationPolicies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification policy %q", value)
}
