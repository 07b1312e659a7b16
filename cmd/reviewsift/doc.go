// Reviewsift classifies GitHub pull request review comments as actionable
// or not and reports on them.
//
// Usage:
//
//	reviewsift sync octocat/hello-world        # download PRs and review comments
//	reviewsift analyze octocat/hello-world     # analyze the cached comments
//	reviewsift analyze --compare owner/repo    # with bots vs. human only
//	reviewsift import octocat/hello-world      # snapshot the cache into SQLite
//	reviewsift serve                           # HTTP API and /metrics
//	reviewsift classify "please check the err" # classify one comment
package main
