// Command jobportalctl runs one-off maintenance tasks against the job portal
// database: schema migrations, seeding and the unverified-user sweep.
package main

func main() {
	Execute()
}
