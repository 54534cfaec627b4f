package utils

import (
	"math/rand"
	"strings"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var firstNames = []string{
	"Alice", "Ben", "Chloe", "Dinesh", "Ethan", "Farah", "Gopal", "Hana",
	"Ivan", "Jia", "Kiran", "Leia", "Marcus", "Nadia", "Omar", "Priya",
	"Quentin", "Rosa", "Sam", "Tara",
}
var lastNames = []string{
	"Tan", "Lim", "Ong", "Raj", "Goh", "Aziz", "Nair", "Wong",
	"Chia", "Ying", "Das", "Koh", "Yeo", "Hassan", "Farouk", "Menon",
	"Blanc", "Moreno", "Lee", "Pillai",
}

func GenerateRandomFullName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

var digits = "0123456789"

// GenerateUsernameFromFullName builds a lowercase login from a name plus a few
// random digits to keep collisions unlikely.
func GenerateUsernameFromFullName(fullName string) string {
	username := strings.ToLower(strings.ReplaceAll(fullName, " ", "."))

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

var guideTypes = []domain.GuideType{
	domain.GuideFullTime,
	domain.GuidePartTimeMorning,
	domain.GuidePartTimeAfternoon,
}

func GenerateRandomGuide(emailDomainName string) *domain.Guide {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)

	return &domain.Guide{
		FullName: fullName,
		Email:    username + "@" + emailDomainName,
		Type:     guideTypes[rand.Intn(len(guideTypes))],
	}
}

func GenerateRandomStaff(staffType domain.StaffType, emailDomainName string) *domain.RestaurantStaff {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)

	return &domain.RestaurantStaff{
		FullName: fullName,
		Email:    username + "@" + emailDomainName,
		Type:     staffType,
	}
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleViewer,
	}, nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}
