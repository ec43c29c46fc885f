package gateway_test

import (
	"fmt"
	"time"

	"github.com/prepdeck/appcore/gateway"
)

func ExampleTrustPolicy() {
	policy := gateway.NewTrustPolicy([]string{"api.prepdeck.com"})

	fmt.Println(policy.IsTrusted("https://api.prepdeck.com/interview-preps/1"))
	fmt.Println(policy.IsTrusted("http://api.prepdeck.com/interview-preps/1"))
	fmt.Println(policy.IsTrusted("https://evil.example.com/interview-preps/1"))
	// Output:
	// true
	// false
	// false
}

func ExampleRateLimiter() {
	rl := gateway.NewRateLimiter(gateway.RateLimiterConfig{
		Limit:  2,
		Window: time.Minute,
	})

	fmt.Println(rl.Allow("/interview-preps/1"))
	fmt.Println(rl.Allow("/interview-preps/1"))
	fmt.Println(rl.Allow("/interview-preps/1"))

	// Another endpoint has its own window.
	fmt.Println(rl.Allow("/resumes/1"))
	// Output:
	// true
	// true
	// false
	// true
}
