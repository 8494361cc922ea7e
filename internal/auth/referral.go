package auth

import "math/rand"

const referralCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const referralCodeLength = 8

// generateReferralCode, büyük harf + rakamdan oluşan rastgele bir kod üretir.
// Benzersizlik burada garanti edilmez; users.referral_code üzerindeki unique
// index çakışmayı yakalar, çağıran taraf sınırlı sayıda yeniden dener.
func generateReferralCode(length int) string {
	if length <= 0 {
		length = referralCodeLength
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = referralCharset[rand.Intn(len(referralCharset))]
	}
	return string(b)
}
