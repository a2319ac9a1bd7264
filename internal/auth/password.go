// Package auth は認証（パスワード・セッション）とアカウント系のハンドラーを提供します。
package auth

import "golang.org/x/crypto/bcrypt"

// hashCost は bcrypt のコストファクターです。
const hashCost = 10

// HashPassword は平文パスワードをソルト付きの一方向ハッシュに変換します。
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword は平文パスワードがハッシュと一致するか検証します。
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
