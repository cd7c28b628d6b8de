package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/nimbus-crew/rosterd/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var scheduleTypes = []domain.ScheduleType{
	domain.ScheduleBothShifts,
	domain.ScheduleMorningOnly,
	domain.ScheduleAfternoonOnly,
}

func GenerateRandomScheduleType() domain.ScheduleType {
	return scheduleTypes[rand.Intn(len(scheduleTypes))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleStaff,
		ScheduleType: GenerateRandomScheduleType(),
		IsActive:     true,
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

// 用 Fisher-Yates 洗牌算法生成随机的适用天数
func GenerateRandomApplicableDays() []int32 {
	days := []int32{1, 2, 3, 4, 5, 6, 7}

	for i := len(days) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		days[i], days[j] = days[j], days[i]
	}

	n := rand.Intn(len(days)) + 1

	return days[:n]
}

// GenerateRandomWorkShift 生成一对不重叠的早晚班中的一个
// kindSlot 为 0 生成早班，为 1 生成晚班
func GenerateRandomWorkShift(kindSlot int) *domain.WorkShift {
	shift := &domain.WorkShift{
		Name:                 "班次" + GenerateRandomID(3, 3),
		LateThresholdMinutes: int32(rand.Intn(30)),
		ApplicableDays:       GenerateRandomApplicableDays(),
	}

	startMinute := rand.Intn(30)    // 0~29
	endMinute := rand.Intn(30) + 30 // 30~59

	if kindSlot == 0 {
		shift.Kind = domain.ShiftKindMorning
		shift.StartTime = fmt.Sprintf("%02d:%02d:00", rand.Intn(3)+8, startMinute)
		shift.EndTime = fmt.Sprintf("%02d:%02d:00", rand.Intn(2)+11, endMinute)
	} else {
		shift.Kind = domain.ShiftKindAfternoon
		shift.StartTime = fmt.Sprintf("%02d:%02d:00", rand.Intn(3)+14, startMinute)
		shift.EndTime = fmt.Sprintf("%02d:%02d:00", rand.Intn(2)+17, endMinute)
	}

	return shift
}

func GenerateRandomPosition(displayOrder int32) *domain.Position {
	return &domain.Position{
		Name:         "岗位" + GenerateRandomID(3, 3),
		DisplayOrder: displayOrder,
	}
}

// 使用 Fisher-Yates 洗牌算法来生成一个随机子集
func GenerateRandomSubset[T any](arr []T) []T {
	arrCopy := append([]T{}, arr...) // 复制数组，避免修改原数组

	for i := 0; i < len(arrCopy)-1; i++ {
		j := rand.Intn(len(arrCopy)-i) + i
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	l := rand.Intn(len(arrCopy)) + 1
	return arrCopy[:l]
}
